package utils

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
)

var (
	sleep  = time.Sleep
	jitter = rand.Int64N
)

func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Pacer inserts the artificial "thinking" pauses before synthesized replies.
// The zero value is disabled and never waits.
type Pacer struct {
	Enabled bool
}

// Between waits a random duration in [min, max] unless the pacer is disabled.
func (p Pacer) Between(ctx context.Context, min, max time.Duration) error {
	if !p.Enabled {
		return nil
	}
	if max < min {
		min, max = max, min
	}

	d := min
	if spread := int64(max - min); spread > 0 {
		d += time.Duration(jitter(spread + 1))
	}
	return WaitFor(ctx, d)
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Snippet returns at most the first limit runes of s, untrimmed.
func Snippet(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
