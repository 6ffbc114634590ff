// Package turn holds the wire types shared by the API and its clients
// for submitting one journal turn: a dice roll plus the player's
// written response to the current prompt.
package turn

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/memory"
	"github.com/jwebster45206/journal-engine/pkg/roll"
)

// Request is the body of POST /v1/turn.
type Request struct {
	JournalID uuid.UUID `json:"journal_id"`
	Roll      roll.Roll `json:"roll"`
	Response  string    `json:"response"`
}

// Result is everything the presentation layer needs after one turn:
// the dice, the next position and its prompt text (or a placeholder),
// and how the response landed in the memory pool. On a blocked turn
// (memory pool full) the position and pool are unchanged and the
// player must archive or retire a memory before resubmitting.
type Result struct {
	JournalID       uuid.UUID        `json:"journal_id"`
	Roll            roll.Roll        `json:"roll"`
	Movement        int              `json:"movement"`
	Position        journal.Position `json:"position"`
	PromptText      string           `json:"prompt_text"`
	PlaceholderUsed bool             `json:"placeholder_used"`
	Memory          memory.Outcome   `json:"memory"`
	Memories        memory.Pool      `json:"memories"`
	TurnCounter     int              `json:"turn_counter"`
	Error           string           `json:"error,omitempty"`
}
