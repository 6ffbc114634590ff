package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/memory"
)

// ErrCorruptState marks persisted journal state that violates a core
// invariant. Callers should reject the journal rather than repair it.
var ErrCorruptState = errors.New("corrupt journal state")

// JournalState is the persisted state of one character's journal. One
// journal owns its position, visit record, and memory pool
// exclusively; nothing is shared across journals.
type JournalState struct {
	ID          uuid.UUID    `json:"id"`
	Book        string       `json:"book"` // prompt book filename
	Position    Position     `json:"position"`
	Visits      VisitRecord  `json:"visits"`
	Memories    memory.Pool  `json:"memories"`
	TurnCounter int          `json:"turn_counter"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`
}

// NewJournalState opens a fresh journal on a prompt book, positioned
// at 1a with an empty visit record.
func NewJournalState(book string) *JournalState {
	return &JournalState{
		ID:        uuid.New(),
		Book:      book,
		Position:  Start(),
		Visits:    make(VisitRecord),
		Memories:  make(memory.Pool, 0),
		CreatedAt: time.Now().UTC(),
	}
}

// Validate fails fast on corrupted persisted state (bad position,
// malformed visit record, memory pool over its caps).
func (js *JournalState) Validate() error {
	if js == nil {
		return fmt.Errorf("%w: nil journal", ErrCorruptState)
	}
	if !js.Position.Valid() {
		return fmt.Errorf("%w: position %d%q", ErrCorruptState, js.Position.Number, js.Position.Letter)
	}
	if err := js.Visits.Validate(); err != nil {
		return err
	}
	if err := js.Memories.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return nil
}
