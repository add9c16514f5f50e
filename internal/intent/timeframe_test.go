package intent

import "testing"

func TestExtractTimeframe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		ok       bool
		expect   Timeframe
		echo     string
		wantDays int
	}{
		{name: "days", text: "interview in 5 days", ok: true, expect: Timeframe{Amount: 5, Unit: Day}, echo: "in 5 days", wantDays: 5},
		{name: "single day", text: "interview in 1 day", ok: true, expect: Timeframe{Amount: 1, Unit: Day}, echo: "in 1 day", wantDays: 1},
		{name: "weeks no space", text: "in 2weeks", ok: true, expect: Timeframe{Amount: 2, Unit: Week}, echo: "in 2 weeks", wantDays: 14},
		{name: "month upper case", text: "In 1 MONTH", ok: true, expect: Timeframe{Amount: 1, Unit: Month}, echo: "in 1 month", wantDays: 30},
		{name: "huge months saturate", text: "interview in 400000000000000000 months", ok: true, expect: Timeframe{Amount: 400000000000000000, Unit: Month}, echo: "in 400000000000000000 months", wantDays: MaxDays},
		{name: "huge days saturate", text: "in 99999999 days", ok: true, expect: Timeframe{Amount: 99999999, Unit: Day}, echo: "in 99999999 days", wantDays: MaxDays},
		{name: "glued to word", text: "in 5dayz", ok: false},
		{name: "no number", text: "in a few days", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tf, ok := ExtractTimeframe(tt.text)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				if DescribeTimeframe(tt.text) != SoonText {
					t.Fatalf("expected %q echo for %q", SoonText, tt.text)
				}
				return
			}
			if tf != tt.expect {
				t.Fatalf("expected %+v, got %+v", tt.expect, tf)
			}
			if tf.String() != tt.echo {
				t.Fatalf("expected echo %q, got %q", tt.echo, tf.String())
			}
			if tf.Days() != tt.wantDays {
				t.Fatalf("expected %d days, got %d", tt.wantDays, tf.Days())
			}
		})
	}
}

func TestParseDays(t *testing.T) {
	if days, ok := ParseDays("in 3 weeks"); !ok || days != 21 {
		t.Fatalf("expected 21 days, got %d (ok=%v)", days, ok)
	}
	if _, ok := ParseDays(SoonText); ok {
		t.Fatalf("expected %q to be unparseable", SoonText)
	}
	if days, ok := ParseDays("in 400000000000000000 months"); !ok || days != MaxDays {
		t.Fatalf("expected saturated %d days, got %d (ok=%v)", MaxDays, days, ok)
	}
}
