package journal

import "fmt"

// Letter is the sub-slot of a prompt. Each prompt number has exactly
// three letters, ordered a < b < c with no wraparound past c.
type Letter string

const (
	LetterA Letter = "a"
	LetterB Letter = "b"
	LetterC Letter = "c"
)

// Letters holds the fixed alphabet in order.
var Letters = []Letter{LetterA, LetterB, LetterC}

// Valid reports whether l is one of a, b, c.
func (l Letter) Valid() bool {
	return l == LetterA || l == LetterB || l == LetterC
}

// Next returns the following letter in the alphabet. The second return
// is false when l is already c (or invalid).
func (l Letter) Next() (Letter, bool) {
	switch l {
	case LetterA:
		return LetterB, true
	case LetterB:
		return LetterC, true
	default:
		return l, false
	}
}

// Position identifies one prompt slot in a book.
type Position struct {
	Number int    `json:"number"`
	Letter Letter `json:"letter"`
}

// Start is the position every new journal opens at.
func Start() Position {
	return Position{Number: 1, Letter: LetterA}
}

// Valid reports whether the position is within the domain: number at
// least 1 and a known letter.
func (p Position) Valid() bool {
	return p.Number >= 1 && p.Letter.Valid()
}

func (p Position) String() string {
	return fmt.Sprintf("%d%s", p.Number, p.Letter)
}
