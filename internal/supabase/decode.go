package supabase

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

func decodeRow(row map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(row)
}

// createdAt reads the created_at column, which mapstructure skips.
func createdAt(row map[string]any) (time.Time, error) {
	raw, ok := row["created_at"].(string)
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("created_at %q: %w", raw, err)
	}
	return t.UTC(), nil
}

// nested returns an embedded relation; PostgREST sends to-one relations as
// objects and to-many as arrays.
func nested(row map[string]any, key string) (map[string]any, bool) {
	switch v := row[key].(type) {
	case map[string]any:
		return v, true
	case []any:
		if len(v) == 0 {
			return nil, false
		}
		m, ok := v[0].(map[string]any)
		return m, ok
	default:
		return nil, false
	}
}
