// Package sessions keeps conversation state between turns, keyed by session id.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/careerkitsune/careerkitsune-ai/internal/dialogue"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store persists sessions. Load returns a private copy; changes are only
// visible to other callers after Save.
type Store interface {
	Load(ctx context.Context, id string) (*dialogue.Session, error)
	Save(ctx context.Context, id string, s *dialogue.Session) error
	Delete(ctx context.Context, id string) error
}

func encode(s *dialogue.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return data, nil
}

func decode(id string, data []byte) (*dialogue.Session, error) {
	var s dialogue.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	if s.ID == "" {
		s.ID = id
	}
	return &s, nil
}
