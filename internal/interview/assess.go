package interview

import "github.com/careerkitsune/careerkitsune-ai/internal/skillgap"

type Readiness string

const (
	ReadinessHigh   Readiness = "high"
	ReadinessMedium Readiness = "medium"
	ReadinessLow    Readiness = "low"
)

// Label is the decorated form used in chat replies.
func (r Readiness) Label() string {
	switch r {
	case ReadinessHigh:
		return "High ✅"
	case ReadinessMedium:
		return "Medium ⚠️"
	default:
		return "Low ❌"
	}
}

const maxFocusAreas = 3

var (
	feedback = map[Readiness]string{
		ReadinessLow:    "Based on the significant skill gaps and limited preparation time, you may want to consider requesting a later interview date. If that's not possible, focus intensely on the most critical skills and be prepared to discuss your learning approach.",
		ReadinessMedium: "You have some important skill gaps to address, but with focused preparation, you can make significant progress. Prioritize the most critical skills and prepare to discuss how you're actively developing in these areas.",
		ReadinessHigh:   "You're well-positioned for this interview. Focus on refining your existing skills and preparing compelling examples of your experience. Be ready to demonstrate depth in your strongest areas.",
	}

	techniqueFocus = "Interview technique and STAR method responses"
	companyFocus   = "Company-specific knowledge"
	questionsFocus = "Preparing thoughtful questions for interviewers"
)

type Assessment struct {
	Readiness      Readiness `json:"readiness" yaml:"readiness"`
	FocusAreas     []string  `json:"focus_areas" yaml:"focus_areas"`
	HonestFeedback string    `json:"honest_feedback" yaml:"honest_feedback"`
}

// ReadinessFor grades preparedness from the share of missing skills and the
// days left before the interview.
func ReadinessFor(gapRatio float64, totalDays int) Readiness {
	switch {
	case gapRatio > 0.5 && totalDays < 7:
		return ReadinessLow
	case gapRatio > 0.3 || totalDays < 3:
		return ReadinessMedium
	default:
		return ReadinessHigh
	}
}

// Assess builds the overall assessment for a skill-gap analysis.
func Assess(analysis skillgap.Analysis, totalDays int) Assessment {
	readiness := ReadinessFor(analysis.GapRatio(), totalDays)

	focus := make([]string, 0, maxFocusAreas)
	for _, gap := range analysis.GapsIdentified {
		if len(focus) == maxFocusAreas {
			break
		}
		focus = append(focus, gap)
	}

	var padding []string
	if totalDays < 7 {
		padding = append(padding, techniqueFocus)
	}
	padding = append(padding, companyFocus, questionsFocus)
	for _, area := range padding {
		if len(focus) == maxFocusAreas {
			break
		}
		focus = append(focus, area)
	}

	return Assessment{
		Readiness:      readiness,
		FocusAreas:     focus,
		HonestFeedback: feedback[readiness],
	}
}
