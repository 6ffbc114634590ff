package journal

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/memory"
)

func TestNewJournalState(t *testing.T) {
	js := NewJournalState("the_hungering_dark.json")

	if js.ID == uuid.Nil {
		t.Error("new journal should have an ID")
	}
	if js.Position != Start() {
		t.Errorf("position = %v, want 1a", js.Position)
	}
	if len(js.Visits) != 0 {
		t.Errorf("visits should start empty, got %v", js.Visits)
	}
	if len(js.Memories) != 0 {
		t.Errorf("memories should start empty, got %d", len(js.Memories))
	}
	if err := js.Validate(); err != nil {
		t.Errorf("new journal should validate, got %v", err)
	}
}

func TestJournalState_Validate(t *testing.T) {
	overCap := make(memory.Pool, 0, memory.MaxActive+1)
	for i := 0; i <= memory.MaxActive; i++ {
		overCap = append(overCap, memory.Memory{ID: string(rune('a' + i)), Title: "m"})
	}

	tests := []struct {
		name    string
		mutate  func(*JournalState)
		corrupt bool
	}{
		{"valid", func(js *JournalState) {}, false},
		{"zero position number", func(js *JournalState) { js.Position.Number = 0 }, true},
		{"bad letter", func(js *JournalState) { js.Position.Letter = "q" }, true},
		{"bad visit record", func(js *JournalState) { js.Visits = VisitRecord{1: {"z"}} }, true},
		{"pool over cap", func(js *JournalState) { js.Memories = overCap }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js := NewJournalState("test.json")
			tt.mutate(js)
			err := js.Validate()
			if tt.corrupt && !errors.Is(err, ErrCorruptState) {
				t.Errorf("Validate() = %v, want ErrCorruptState", err)
			}
			if !tt.corrupt && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestJournalState_JSONRoundTrip(t *testing.T) {
	js := NewJournalState("test.json")
	js.Visits = js.Visits.Record(Position{1, LetterA}).Record(Position{3, LetterB})
	js.Memories, _ = memory.Record("I fed on a traveler", js.Memories)
	js.TurnCounter = 2

	data, err := json.Marshal(js)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got JournalState
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != js.ID || got.Position != js.Position || got.TurnCounter != js.TurnCounter {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if !got.Visits.Visited(Position{3, LetterB}) {
		t.Error("round trip lost visit record entries")
	}
	if len(got.Memories) != 1 || len(got.Memories[0].Experiences) != 1 {
		t.Errorf("round trip lost memory pool: %+v", got.Memories)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("round-tripped journal should validate, got %v", err)
	}
}
