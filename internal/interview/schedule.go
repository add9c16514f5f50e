package interview

// ScheduleEntry is one block of the preparation schedule.
type ScheduleEntry struct {
	Day   string   `json:"day" yaml:"day"`
	Tasks []string `json:"tasks" yaml:"tasks"`
}

var (
	rushToday = ScheduleEntry{
		Day: "Day 1 (Today)",
		Tasks: []string{
			"Research company and role (1 hour)",
			"Review your resume and prepare to discuss all points (30 mins)",
			"Practice answering 5 common behavioral questions (1 hour)",
			"Quick review of technical fundamentals (2 hours)",
			"Prepare 3-5 questions to ask interviewers (30 mins)",
			"Plan interview logistics - outfit, transportation, etc. (30 mins)",
		},
	}
	rushTomorrow = ScheduleEntry{
		Day: "Day 2 (Tomorrow)",
		Tasks: []string{
			"Mock interview with focus on weakest areas (1 hour)",
			"Final technical concept review (1 hour)",
			"Relaxation and mental preparation (1 hour)",
			"Review company's latest news and developments (30 mins)",
			"Prepare interview materials - portfolio, code samples, etc. (30 mins)",
			"Early sleep for mental sharpness",
		},
	}

	weekBand = []ScheduleEntry{
		{
			Day: "Days 1-2",
			Tasks: []string{
				"Deep company research - culture, products, challenges (2 hours)",
				"Role requirements analysis and skill gap identification (1 hour)",
				"Create study plan for technical topics (1 hour)",
				"Begin technical review of most critical topics (2 hours/day)",
			},
		},
		{
			Day: "Days 3-5",
			Tasks: []string{
				"Daily technical practice problems (1-2 hours/day)",
				"Prepare and practice STAR stories for behavioral questions (1 hour/day)",
				"Mock interviews focusing on different aspects each day (1 hour/day)",
				"Research your interviewers if names are known (30 mins)",
			},
		},
		{
			Day: "Days 6-7",
			Tasks: []string{
				"Final mock interviews with feedback (2 hours)",
				"Review of weak areas identified in mocks (1-2 hours)",
				"Prepare thoughtful questions for interviewers (30 mins)",
				"Relaxation techniques and mental preparation (30 mins/day)",
				"Outfit and logistics preparation",
				"Early sleep night before interview",
			},
		},
	}

	longBand = []ScheduleEntry{
		{
			Day: "Week 1",
			Tasks: []string{
				"Comprehensive company and role research (3-4 hours)",
				"Detailed skill gap analysis (1-2 hours)",
				"Create structured study plan for technical topics (1 hour)",
				"Begin fundamental concept review (1-2 hours/day)",
				"Start preparing STAR stories for behavioral questions (2-3 hours)",
			},
		},
		{
			Day: "Week 2",
			Tasks: []string{
				"Daily technical practice with increasing difficulty (1-2 hours/day)",
				"Mock interviews with focus on technical skills (2-3 sessions)",
				"Refine behavioral question responses (2-3 hours)",
				"Research industry trends relevant to the role (1-2 hours)",
				"Begin preparing questions for interviewers (1 hour)",
			},
		},
	}

	finalWeek = ScheduleEntry{
		Day: "Final Week",
		Tasks: []string{
			"Comprehensive mock interviews (2-3 sessions)",
			"Focus on weak areas identified in mocks (2-3 hours)",
			"Final review of technical concepts (2-3 hours)",
			"Refine and practice delivery of STAR stories (1-2 hours)",
			"Research your interviewers if names are known (1 hour)",
			"Finalize questions for interviewers (30 mins)",
			"Prepare interview materials and logistics",
			"Relaxation and mental preparation (30 mins/day)",
		},
	}
)

// BuildSchedule picks the fixed schedule band for the days left:
// up to 2 days gets daily entries, up to 7 days gets three day ranges and
// anything longer gets weekly entries plus a final week past 14 days.
func BuildSchedule(totalDays int) []ScheduleEntry {
	var entries []ScheduleEntry
	switch {
	case totalDays <= 2:
		entries = append(entries, rushToday)
		if totalDays > 1 {
			entries = append(entries, rushTomorrow)
		}
	case totalDays <= 7:
		entries = append(entries, weekBand...)
	default:
		entries = append(entries, longBand...)
		if totalDays > 14 {
			entries = append(entries, finalWeek)
		}
	}

	for i := range entries {
		entries[i].Tasks = append([]string(nil), entries[i].Tasks...)
	}
	return entries
}
