// Package intent routes free-text utterances to a fixed set of intents using
// ordered keyword containment rules.
package intent

import "strings"

type Intent int

const (
	Unknown Intent = iota
	InterviewMention
	ApplyConfirm
	Greeting
	JobSearch
	NextJob
	JobDetails
	Apply
	Resume
	LinkedIn
	Status
	Help
)

var names = map[Intent]string{
	Unknown:          "unknown",
	InterviewMention: "interview_mention",
	ApplyConfirm:     "apply_confirm",
	Greeting:         "greeting",
	JobSearch:        "job_search",
	NextJob:          "next_job",
	JobDetails:       "job_details",
	Apply:            "apply",
	Resume:           "resume",
	LinkedIn:         "linkedin",
	Status:           "status",
	Help:             "help",
}

func (i Intent) String() string {
	if name, ok := names[i]; ok {
		return name
	}
	return "unknown"
}

// ConfirmPhrase is the literal reply that confirms a pending application.
const ConfirmPhrase = "yes, proceed"

// Rule matches a lower-cased utterance against a phrase set.
type Rule struct {
	Intent  Intent
	Phrases []string
	// Exact requires the whole trimmed utterance to equal one of the phrases.
	Exact bool
	// NeedsTimeframe additionally requires a "<n> day|week|month" expression.
	NeedsTimeframe bool
}

// Matches reports whether the rule accepts the already lower-cased utterance.
func (r Rule) Matches(lower string) bool {
	if r.Exact {
		trimmed := strings.TrimSpace(lower)
		for _, phrase := range r.Phrases {
			if trimmed == phrase {
				return true
			}
		}
		return false
	}

	if !containsAny(lower, r.Phrases) {
		return false
	}
	if r.NeedsTimeframe {
		_, ok := ExtractTimeframe(lower)
		return ok
	}
	return true
}

// rules are evaluated top to bottom and the first match wins. Short phrases
// such as "hi" match inside longer words ("this", "which"), so greeting
// shadows everything declared after it for those utterances.
var rules = []Rule{
	{Intent: InterviewMention, Phrases: []string{"interview in", "have an interview", "got an interview"}, NeedsTimeframe: true},
	{Intent: ApplyConfirm, Phrases: []string{ConfirmPhrase}, Exact: true},
	{Intent: Greeting, Phrases: []string{"hello", "hi", "hey", "greetings"}},
	{Intent: JobSearch, Phrases: []string{"find job", "search job", "look for job", "job search"}},
	{Intent: NextJob, Phrases: []string{"next job", "another job", "show me more"}},
	{Intent: JobDetails, Phrases: []string{"tell me more", "job details", "more information"}},
	{Intent: Apply, Phrases: []string{"apply", "submit application", "apply on my behalf"}},
	{Intent: Resume, Phrases: []string{"resume", "upload resume", "update resume"}},
	{Intent: LinkedIn, Phrases: []string{"linkedin", "connect linkedin", "import linkedin"}},
	{Intent: Status, Phrases: []string{"status", "application status", "check status"}},
	{Intent: Help, Phrases: []string{"help", "what can you do", "capabilities"}},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		r.Phrases = append([]string(nil), r.Phrases...)
		out[i] = r
	}
	return out
}

// Classify returns the first intent whose rule matches the utterance.
func Classify(utterance string) Intent {
	lower := strings.ToLower(utterance)
	for _, r := range rules {
		if r.Matches(lower) {
			return r.Intent
		}
	}
	return Unknown
}

// ContainsAny reports whether text contains any of the phrases, case-insensitively.
func ContainsAny(text string, phrases ...string) bool {
	return containsAny(strings.ToLower(text), phrases)
}

func containsAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
