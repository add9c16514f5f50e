// Package catalog holds the static interview lookup tables: topics per role and
// interview patterns per company.
package catalog

import "strings"

// DefaultKey names the fallback entry of both tables.
const DefaultKey = "default"

// RoleTopics lists what a candidate for a role should study.
type RoleTopics struct {
	Technical  []string
	Behavioral []string
}

// CompanyPattern describes how a company usually runs its interviews.
type CompanyPattern struct {
	Format        string
	Focus         []string
	UniqueAspects []string
}

type roleEntry struct {
	key    string
	topics RoleTopics
}

type companyEntry struct {
	key     string
	pattern CompanyPattern
}

// Iteration order matters: the first key contained in the input wins.
var roles = []roleEntry{
	{
		key: "software engineer",
		topics: RoleTopics{
			Technical: []string{
				"Data structures & algorithms",
				"System design",
				"Programming languages (specific to role)",
				"Problem-solving approach",
				"Code optimization",
				"Testing methodologies",
			},
			Behavioral: []string{
				"Teamwork & collaboration",
				"Conflict resolution",
				"Project management",
				"Adaptability",
				"Communication skills",
				"Leadership experience",
			},
		},
	},
	{
		key: "product manager",
		topics: RoleTopics{
			Technical: []string{
				"Product metrics & analytics",
				"User research methods",
				"Product development lifecycle",
				"Prioritization frameworks",
				"Market analysis",
				"Technical understanding",
			},
			Behavioral: []string{
				"Stakeholder management",
				"Decision making process",
				"Cross-functional collaboration",
				"Customer focus",
				"Strategic thinking",
				"Problem solving",
			},
		},
	},
	{
		key: "data scientist",
		topics: RoleTopics{
			Technical: []string{
				"Statistical analysis",
				"Machine learning algorithms",
				"Data cleaning & preprocessing",
				"SQL & database knowledge",
				"Python/R programming",
				"Experiment design",
			},
			Behavioral: []string{
				"Communication of complex concepts",
				"Business acumen",
				"Project prioritization",
				"Teamwork",
				"Adaptability",
				"Attention to detail",
			},
		},
	},
}

var defaultRole = RoleTopics{
	Technical: []string{
		"Role-specific technical skills",
		"Industry knowledge",
		"Tools & software proficiency",
		"Problem-solving methodology",
		"Analytical thinking",
	},
	Behavioral: []string{
		"Communication skills",
		"Teamwork & collaboration",
		"Adaptability",
		"Time management",
		"Leadership potential",
		"Conflict resolution",
	},
}

var companies = []companyEntry{
	{
		key: "google",
		pattern: CompanyPattern{
			Format:        "Multiple rounds with different interviewers, focusing on technical skills and Googleyness",
			Focus:         []string{"Algorithm efficiency", "System design", "Cultural fit", "Leadership"},
			UniqueAspects: []string{"STAR method responses", "Focus on data-driven decisions", "Emphasis on scale"},
		},
	},
	{
		key: "amazon",
		pattern: CompanyPattern{
			Format:        "Behavioral and technical interviews with heavy focus on Leadership Principles",
			Focus:         []string{"Amazon Leadership Principles", "Customer obsession", "Technical depth", "Ownership"},
			UniqueAspects: []string{"STAR method is essential", "Expect bar-raiser interviews", "Prepare ownership examples"},
		},
	},
	{
		key: "microsoft",
		pattern: CompanyPattern{
			Format:        "Problem-solving and coding interviews with focus on collaboration",
			Focus:         []string{"Coding skills", "Problem decomposition", "Architecture", "Growth mindset"},
			UniqueAspects: []string{"Collaborative approach to problems", "Focus on learning and growth", "Product thinking"},
		},
	},
	{
		key: "apple",
		pattern: CompanyPattern{
			Format:        "Technical depth and design sensibility with attention to detail",
			Focus:         []string{"Technical expertise", "Design thinking", "Attention to detail", "User focus"},
			UniqueAspects: []string{"Emphasis on quality and craft", "Deep domain knowledge", "User experience focus"},
		},
	},
	{
		key: "facebook",
		pattern: CompanyPattern{
			Format:        "Coding, design and behavioral interviews with focus on impact",
			Focus:         []string{"Coding efficiency", "System design", "Cultural fit", "Impact measurement"},
			UniqueAspects: []string{"Move fast culture", "Focus on scale", "Emphasis on metrics and impact"},
		},
	},
}

var defaultCompany = CompanyPattern{
	Format:        "Combination of technical and behavioral interviews",
	Focus:         []string{"Technical skills", "Cultural fit", "Problem-solving", "Communication"},
	UniqueAspects: []string{"Research company values", "Prepare relevant examples", "Have thoughtful questions ready"},
}

// LookupRole returns the first known role key contained in role
// (case-insensitive) and its topics, or DefaultKey and the default topics.
// The returned slices are copies.
func LookupRole(role string) (string, RoleTopics) {
	normalized := strings.ToLower(role)
	for _, entry := range roles {
		if strings.Contains(normalized, entry.key) {
			return entry.key, entry.topics.clone()
		}
	}
	return DefaultKey, defaultRole.clone()
}

// LookupCompany works like LookupRole for the company pattern table.
func LookupCompany(company string) (string, CompanyPattern) {
	normalized := strings.ToLower(company)
	for _, entry := range companies {
		if strings.Contains(normalized, entry.key) {
			return entry.key, entry.pattern.clone()
		}
	}
	return DefaultKey, defaultCompany.clone()
}

// RoleKeys lists the known role keys in lookup order, without the default.
func RoleKeys() []string {
	keys := make([]string, 0, len(roles))
	for _, entry := range roles {
		keys = append(keys, entry.key)
	}
	return keys
}

// CompanyKeys lists the known company keys in lookup order, without the default.
func CompanyKeys() []string {
	keys := make([]string, 0, len(companies))
	for _, entry := range companies {
		keys = append(keys, entry.key)
	}
	return keys
}

func (t RoleTopics) clone() RoleTopics {
	return RoleTopics{
		Technical:  append([]string(nil), t.Technical...),
		Behavioral: append([]string(nil), t.Behavioral...),
	}
}

func (p CompanyPattern) clone() CompanyPattern {
	return CompanyPattern{
		Format:        p.Format,
		Focus:         append([]string(nil), p.Focus...),
		UniqueAspects: append([]string(nil), p.UniqueAspects...),
	}
}
