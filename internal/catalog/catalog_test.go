package catalog

import "testing"

func TestLookupRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		role   string
		expect string
	}{
		{name: "exact", role: "software engineer", expect: "software engineer"},
		{name: "mixed case with seniority", role: "Senior Software Engineer II", expect: "software engineer"},
		{name: "data scientist", role: "Lead Data Scientist", expect: "data scientist"},
		{name: "unknown role", role: "chef", expect: DefaultKey},
		{name: "empty", role: "", expect: DefaultKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key, topics := LookupRole(tt.role)
			if key != tt.expect {
				t.Fatalf("expected key %q, got %q", tt.expect, key)
			}
			if len(topics.Technical) == 0 || len(topics.Behavioral) == 0 {
				t.Fatalf("expected topics for %q", key)
			}
		})
	}
}

func TestLookupRoleFirstMatchWins(t *testing.T) {
	key, _ := LookupRole("product manager turned software engineer")
	if key != "software engineer" {
		t.Fatalf("expected table order to win, got %q", key)
	}
}

func TestLookupCompany(t *testing.T) {
	key, pattern := LookupCompany("Amazon Web Services")
	if key != "amazon" {
		t.Fatalf("expected amazon, got %q", key)
	}
	if pattern.Focus[0] != "Amazon Leadership Principles" {
		t.Fatalf("unexpected focus: %v", pattern.Focus)
	}

	key, pattern = LookupCompany("Acme")
	if key != DefaultKey {
		t.Fatalf("expected default, got %q", key)
	}
	if pattern.Format != "Combination of technical and behavioral interviews" {
		t.Fatalf("unexpected default format: %q", pattern.Format)
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	_, topics := LookupRole("software engineer")
	topics.Technical[0] = "mutated"

	_, again := LookupRole("software engineer")
	if again.Technical[0] != "Data structures & algorithms" {
		t.Fatalf("lookup table was mutated through a returned slice")
	}
}

func TestKeys(t *testing.T) {
	if got := len(RoleKeys()); got != 3 {
		t.Fatalf("expected 3 role keys, got %d", got)
	}
	if got := len(CompanyKeys()); got != 5 {
		t.Fatalf("expected 5 company keys, got %d", got)
	}
}
