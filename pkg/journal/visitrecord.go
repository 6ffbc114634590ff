package journal

import (
	"fmt"
	"sort"
)

// VisitRecord is the ledger of which positions a journal has seen,
// keyed by prompt number. Letter slices carry set semantics: no
// duplicates, kept in alphabet order. The record only ever grows.
type VisitRecord map[int][]Letter

// Visited reports whether the exact position has been seen.
func (v VisitRecord) Visited(p Position) bool {
	for _, l := range v[p.Number] {
		if l == p.Letter {
			return true
		}
	}
	return false
}

// FullyVisited reports whether all three letters of number have been seen.
func (v VisitRecord) FullyVisited(number int) bool {
	return len(v[number]) == len(Letters)
}

// LowestUnvisited returns the first letter of number not yet seen, in
// a, b, c order. The second return is false when the number is fully
// visited.
func (v VisitRecord) LowestUnvisited(number int) (Letter, bool) {
	for _, l := range Letters {
		if !v.Visited(Position{Number: number, Letter: l}) {
			return l, true
		}
	}
	return LetterC, false
}

// MaxNumber returns the highest prompt number in the record, or 0 for
// an empty record.
func (v VisitRecord) MaxNumber() int {
	max := 0
	for n := range v {
		if n > max {
			max = n
		}
	}
	return max
}

// Clone returns a deep copy of the record.
func (v VisitRecord) Clone() VisitRecord {
	out := make(VisitRecord, len(v))
	for n, letters := range v {
		out[n] = append([]Letter(nil), letters...)
	}
	return out
}

// Record returns a new record with p added. The receiver is not
// mutated. Recording an already-visited position is a no-op copy.
func (v VisitRecord) Record(p Position) VisitRecord {
	out := v.Clone()
	if out.Visited(p) {
		return out
	}
	letters := append(out[p.Number], p.Letter)
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	out[p.Number] = letters
	return out
}

// Validate fails fast on corrupted persisted state: unknown letters,
// duplicate letters, or prompt numbers below 1.
func (v VisitRecord) Validate() error {
	for n, letters := range v {
		if n < 1 {
			return fmt.Errorf("%w: visit record has prompt number %d", ErrCorruptState, n)
		}
		seen := make(map[Letter]bool, len(letters))
		for _, l := range letters {
			if !l.Valid() {
				return fmt.Errorf("%w: visit record for prompt %d has letter %q", ErrCorruptState, n, l)
			}
			if seen[l] {
				return fmt.Errorf("%w: visit record for prompt %d repeats letter %q", ErrCorruptState, n, l)
			}
			seen[l] = true
		}
	}
	return nil
}
