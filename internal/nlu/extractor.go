// README: Natural-language understanding surface. The dialog layer only
// depends on the Extractor interface; the Gemini provider lives behind it
// so tests can swap in a canned implementation.
package nlu

import (
	"context"
	"errors"
)

// ErrUnavailable means the language model could not produce a usable
// extraction right now. Callers fall back to asking the user to rephrase.
var ErrUnavailable = errors.New("nlu: language model unavailable")

// Turn is one prior message given to the model as context.
type Turn struct {
	Role    string
	Content string
}

// Request is everything the extractor sees for one user message.
type Request struct {
	Text     string
	Language string // best known user language, BCP-47 primary tag
	History  []Turn
	Known    KnownSlots
}

// KnownSlots tells the model what the conversation already collected so
// it only reports changes and additions.
type KnownSlots struct {
	Origin        string
	Destination   string
	TripType      string
	DepartureDate string
	ReturnDate    string
}

// Extraction is the model's structured reading of one message. Empty
// fields mean the message said nothing about that slot.
type Extraction struct {
	Intent          string   `json:"intent"` // flight_search, greeting, chitchat, reset
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	DeparturePhrase string   `json:"departure_phrase"`
	ReturnPhrase    string   `json:"return_phrase"`
	TripType        string   `json:"trip_type"` // one_way, round_trip
	Passengers      int      `json:"passengers"`
	CabinClass      string   `json:"cabin_class"`
	Carriers        []string `json:"carriers"`
	Language        string   `json:"language"`
}

// Extractor turns free text into slot updates.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*Extraction, error)
	DetectLanguage(ctx context.Context, text string) (string, error)
}
