// Package skillgap compares the skills a role requires with the skills a user
// has on record.
package skillgap

import (
	"fmt"
	"strings"
)

const (
	// UnavailableGap is the synthetic gap reported when user skills cannot be read.
	UnavailableGap = "Unable to analyze skills due to an error"

	laterDateRecommendation  = "Consider requesting a later interview date to better prepare"
	allSkillsRecommendation  = "You have all the required skills - focus on deepening your knowledge"
	completeProfileAdvice    = "Complete your skill profile to get better recommendations"
	gapRecommendationPattern = "Focus on learning %s - allocate extra time to this area"
)

type Analysis struct {
	RequiredSkills  []string `json:"required_skills" yaml:"required_skills"`
	UserSkills      []string `json:"user_skills" yaml:"user_skills"`
	GapsIdentified  []string `json:"gaps_identified" yaml:"gaps_identified"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// GapRatio is the share of required skills that are missing.
func (a Analysis) GapRatio() float64 {
	return float64(len(a.GapsIdentified)) / float64(max(1, len(a.RequiredSkills)))
}

// Analyze lists the required skills missing from userSkills. Matching is
// case-insensitive; gaps keep the casing and order of requiredSkills.
func Analyze(userSkills, requiredSkills []string) Analysis {
	have := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	gaps := make([]string, 0)
	for _, skill := range requiredSkills {
		if _, ok := have[strings.ToLower(strings.TrimSpace(skill))]; !ok {
			gaps = append(gaps, skill)
		}
	}

	recommendations := make([]string, 0, len(gaps)+1)
	for _, gap := range gaps {
		recommendations = append(recommendations, fmt.Sprintf(gapRecommendationPattern, gap))
	}
	if float64(len(gaps)) > float64(len(requiredSkills))/2 {
		recommendations = append(recommendations, laterDateRecommendation)
	}
	if len(gaps) == 0 {
		recommendations = append(recommendations, allSkillsRecommendation)
	}

	return Analysis{
		RequiredSkills:  append([]string(nil), requiredSkills...),
		UserSkills:      append([]string{}, userSkills...),
		GapsIdentified:  gaps,
		Recommendations: recommendations,
	}
}

// Unavailable is the analysis used when the user's skills could not be fetched.
func Unavailable(requiredSkills []string) Analysis {
	return Analysis{
		RequiredSkills:  append([]string(nil), requiredSkills...),
		UserSkills:      []string{},
		GapsIdentified:  []string{UnavailableGap},
		Recommendations: []string{completeProfileAdvice},
	}
}
