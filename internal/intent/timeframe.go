package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Unit string

const (
	Day   Unit = "day"
	Week  Unit = "week"
	Month Unit = "month"
)

// DefaultDays is assumed when no timeframe can be parsed.
const DefaultDays = 30

// SoonText stands in for a missing timeframe.
const SoonText = "soon"

var timeframePattern = regexp.MustCompile(`(?i)\b(\d+)\s*(day|week|month)s?\b`)

// Timeframe is an amount of calendar units until an event.
type Timeframe struct {
	Amount int
	Unit   Unit
}

// MaxDays caps Days so huge amounts cannot wrap around.
const MaxDays = 100 * 365

// Days converts the timeframe to days: a week is 7 days and a month is 30.
// The result is saturated at MaxDays.
func (t Timeframe) Days() int {
	per := 1
	switch t.Unit {
	case Week:
		per = 7
	case Month:
		per = 30
	}
	if t.Amount > MaxDays/per {
		return MaxDays
	}
	return t.Amount * per
}

// String renders the timeframe the way replies echo it, e.g. "in 5 days".
func (t Timeframe) String() string {
	unit := string(t.Unit)
	if t.Amount > 1 {
		unit += "s"
	}
	return fmt.Sprintf("in %d %s", t.Amount, unit)
}

// ExtractTimeframe finds the first "<n> day|week|month" expression in text.
func ExtractTimeframe(text string) (Timeframe, bool) {
	match := timeframePattern.FindStringSubmatch(text)
	if match == nil {
		return Timeframe{}, false
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return Timeframe{}, false
	}

	return Timeframe{Amount: amount, Unit: Unit(strings.ToLower(match[2]))}, true
}

// DescribeTimeframe returns the echo text for the timeframe in text, or SoonText.
func DescribeTimeframe(text string) string {
	if tf, ok := ExtractTimeframe(text); ok {
		return tf.String()
	}
	return SoonText
}

// ParseDays returns the number of days described by text.
func ParseDays(text string) (int, bool) {
	tf, ok := ExtractTimeframe(text)
	if !ok {
		return 0, false
	}
	return tf.Days(), true
}
