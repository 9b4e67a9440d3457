package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Panel names a UI region. PanelHome shows the landing screen.
type Panel string

const (
	PanelHome      Panel = "home"
	PanelRecommend Panel = "recommend"
	PanelMood      Panel = "mood"
	PanelSearch    Panel = "search"
	PanelChat      Panel = "chat"
)

func (p Panel) Valid() bool {
	switch p {
	case PanelHome, PanelRecommend, PanelMood, PanelSearch, PanelChat:
		return true
	}
	return false
}

// ChatEntry is one rendered transcript line.
type ChatEntry struct {
	Role string `json:"role"` // user | bot
	Body string `json:"body"`
}

// State is the UI state of one browser session.
type State struct {
	ID             string      `json:"id"`
	SelectedMood   string      `json:"selected_mood,omitempty"`
	ActivePanel    Panel       `json:"active_panel"`
	ActiveCategory string      `json:"active_category,omitempty"`
	Transcript     []ChatEntry `json:"transcript,omitempty"`
	Followups      []string    `json:"followups,omitempty"`
}

func NewState() *State {
	return &State{ID: uuid.NewString(), ActivePanel: PanelHome}
}

// AppendChat adds a transcript entry and drops the oldest beyond limit.
func (s *State) AppendChat(role, body string, limit int) {
	s.Transcript = append(s.Transcript, ChatEntry{Role: role, Body: body})
	if limit > 0 && len(s.Transcript) > limit {
		s.Transcript = append([]ChatEntry(nil), s.Transcript[len(s.Transcript)-limit:]...)
	}
}

type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, s *State) error
	Close() error
}

// Open returns the store named by backend ("memory" or "redis").
func Open(backend, redisURL string, ttl time.Duration) (Store, error) {
	switch strings.ToLower(backend) {
	case "", "memory":
		return NewMemoryStore(ttl), nil
	case "redis":
		r, err := NewRedisStore(redisURL, ttl)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}
