package interview

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]`)

	skillLeadIns = []string{
		"proficient in",
		"experience with",
		"knowledge of",
		"familiar with",
		"skills in",
		"expertise in",
		"background in",
		"understanding of",
	}
)

const maxSkillTokens = 3

// ExtractRequiredSkills scans a job description for lead-in phrases such as
// "experience with" and takes up to three words after each one as a skill.
// Every lead-in found in a sentence contributes a candidate; candidates of two
// characters or fewer are dropped.
func ExtractRequiredSkills(description string) []string {
	var skills []string
	for _, sentence := range sentenceSplit.Split(description, -1) {
		lower := strings.ToLower(sentence)
		source := sentence
		// Case folding changed byte offsets; read the candidate from the folded text.
		if len(lower) != len(sentence) {
			source = lower
		}

		for _, leadIn := range skillLeadIns {
			idx := strings.Index(lower, leadIn)
			if idx < 0 {
				continue
			}

			if skill := leadingWords(source[idx+len(leadIn):]); utf8.RuneCountInString(skill) > 2 {
				skills = append(skills, skill)
			}
		}
	}
	return skills
}

func leadingWords(text string) string {
	words := strings.Fields(text)
	if len(words) > maxSkillTokens {
		words = words[:maxSkillTokens]
	}
	skill := strings.Join(words, " ")
	if strings.HasSuffix(skill, ",") || strings.HasSuffix(skill, ";") {
		skill = skill[:len(skill)-1]
	}
	return skill
}
