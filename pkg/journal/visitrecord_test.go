package journal

import (
	"errors"
	"testing"
)

func TestVisitRecord_RecordIsPure(t *testing.T) {
	v := make(VisitRecord)
	v2 := v.Record(Position{1, LetterA})

	if len(v) != 0 {
		t.Errorf("receiver mutated: %v", v)
	}
	if !v2.Visited(Position{1, LetterA}) {
		t.Error("recorded position not visited in result")
	}

	// Recording the same position again keeps set semantics.
	v3 := v2.Record(Position{1, LetterA})
	if len(v3[1]) != 1 {
		t.Errorf("duplicate letter stored: %v", v3[1])
	}
}

func TestVisitRecord_LettersStaySorted(t *testing.T) {
	v := make(VisitRecord).
		Record(Position{3, LetterC}).
		Record(Position{3, LetterA}).
		Record(Position{3, LetterB})

	want := []Letter{LetterA, LetterB, LetterC}
	got := v[3]
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("letters[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestVisitRecord_Queries(t *testing.T) {
	v := VisitRecord{
		1: {LetterA, LetterB, LetterC},
		4: {LetterA, LetterC},
	}

	if !v.FullyVisited(1) {
		t.Error("1 should be fully visited")
	}
	if v.FullyVisited(4) {
		t.Error("4 should not be fully visited")
	}
	if v.FullyVisited(2) {
		t.Error("unknown number should not be fully visited")
	}

	if l, ok := v.LowestUnvisited(4); !ok || l != LetterB {
		t.Errorf("LowestUnvisited(4) = %s, %v; want b, true", l, ok)
	}
	if l, ok := v.LowestUnvisited(2); !ok || l != LetterA {
		t.Errorf("LowestUnvisited(2) = %s, %v; want a, true", l, ok)
	}
	if _, ok := v.LowestUnvisited(1); ok {
		t.Error("LowestUnvisited(1) should report exhaustion")
	}

	if v.MaxNumber() != 4 {
		t.Errorf("MaxNumber() = %d, want 4", v.MaxNumber())
	}
	if (make(VisitRecord)).MaxNumber() != 0 {
		t.Error("empty record MaxNumber should be 0")
	}
}

func TestVisitRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  VisitRecord
		corrupt bool
	}{
		{"empty", make(VisitRecord), false},
		{"well formed", VisitRecord{1: {LetterA}, 9: {LetterB, LetterC}}, false},
		{"letter outside alphabet", VisitRecord{1: {Letter("d")}}, true},
		{"duplicate letter", VisitRecord{2: {LetterA, LetterA}}, true},
		{"number below one", VisitRecord{0: {LetterA}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.corrupt && !errors.Is(err, ErrCorruptState) {
				t.Errorf("Validate() = %v, want ErrCorruptState", err)
			}
			if !tt.corrupt && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
