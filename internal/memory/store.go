// README: Conversation memory. A Record is everything the assistant knows
// about one user's ongoing conversation; Store implementations persist it
// with a retention window so stale conversations age out.
package memory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"farelink/internal/trip"
)

var ErrNotFound = errors.New("memory: conversation not found")

// Role of a stored message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Record is one user's conversation state.
type Record struct {
	UserID         string       `json:"user_id"`
	State          string       `json:"state"`
	Slots          trip.SlotSet `json:"slots"`
	Messages       []Message    `json:"messages"`
	Language       string       `json:"language"`
	LastSearchHash string       `json:"last_search_hash,omitempty"`
	LastAnswer     string       `json:"last_answer,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewRecord starts a fresh conversation for a user.
func NewRecord(userID string, now time.Time) *Record {
	return &Record{
		UserID:    userID,
		Language:  "en",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message, keeping only the most recent window turns.
// Messages without an ID are assigned one.
func (r *Record) Append(msg Message, window int) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.Messages = append(r.Messages, msg)
	if window > 0 && len(r.Messages) > window {
		r.Messages = r.Messages[len(r.Messages)-window:]
	}
}

// Store persists conversation records keyed by user.
type Store interface {
	// Load returns ErrNotFound for unknown or expired conversations.
	Load(ctx context.Context, userID string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, userID string) error
}
