package interview

import (
	"fmt"

	"github.com/careerkitsune/careerkitsune-ai/internal/catalog"
)

// Questions holds the mock interview questions of a plan.
type Questions struct {
	Technical  []string `json:"technical" yaml:"technical"`
	Behavioral []string `json:"behavioral" yaml:"behavioral"`
}

// MockQuestions fills the fixed question templates with the role topics and
// the company's top focus areas. roleKey is the catalog key the topics came from.
func MockQuestions(roleKey string, topics catalog.RoleTopics, pattern catalog.CompanyPattern) Questions {
	craft := "work"
	if roleKey == "software engineer" {
		craft = "code"
	}

	return Questions{
		Technical: []string{
			fmt.Sprintf("Can you explain your approach to %s?", at(topics.Technical, 0)),
			fmt.Sprintf("How would you solve a problem involving %s?", at(topics.Technical, 1)),
			fmt.Sprintf("What experience do you have with %s?", at(topics.Technical, 2)),
			fmt.Sprintf("How do you ensure quality in your %s?", craft),
			"Tell me about a challenging technical problem you've solved.",
		},
		Behavioral: []string{
			fmt.Sprintf("Tell me about a time when you demonstrated %s.", at(pattern.Focus, 0)),
			fmt.Sprintf("How do you approach %s?", at(topics.Behavioral, 0)),
			fmt.Sprintf("Describe a situation where you had to %s.", at(topics.Behavioral, 1)),
			fmt.Sprintf("What's your approach to %s?", at(pattern.Focus, 1)),
			"Tell me about a time you failed and what you learned from it.",
		},
	}
}

func at(items []string, i int) string {
	if i < len(items) {
		return items[i]
	}
	return ""
}
