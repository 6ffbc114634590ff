package journal

import "github.com/jwebster45206/journal-engine/pkg/roll"

// ExistsFunc reports whether the prompt book has text for a position.
// It is a read-only collaborator; the navigator never calls it for
// anything but discovery of known prompt numbers.
type ExistsFunc func(Position) bool

// Advance computes the next prompt position from the current position,
// a dice roll, and the visitation history. It returns the chosen
// position and a new history containing it; neither input is mutated.
//
// Zero movement (equal dice) keeps the prompt number and bumps the
// letter. When the letter sequence is exhausted at c, the navigator
// redirects forward to the first known number that still has an
// unvisited letter, falling back to a fresh number past everything
// known. Nonzero movement shifts the number (floored at 1) and lands
// on the lowest unvisited letter there, clamping to c when the number
// is fully visited. The clamp never searches further forward; only the
// zero-movement path redirects.
func Advance(current Position, r roll.Roll, history VisitRecord, exists ExistsFunc) (Position, VisitRecord) {
	movement := r.Movement()

	var next Position
	if movement == 0 {
		next = advanceSameNumber(current, history, exists)
	} else {
		number := current.Number + movement
		if number < 1 {
			number = 1
		}
		letter, _ := history.LowestUnvisited(number)
		next = Position{Number: number, Letter: letter}
	}

	return next, history.Record(next)
}

// advanceSameNumber handles the equal-dice case: same number, next
// letter, redirecting forward once c is exhausted.
func advanceSameNumber(current Position, history VisitRecord, exists ExistsFunc) Position {
	if l, ok := current.Letter.Next(); ok {
		return Position{Number: current.Number, Letter: l}
	}
	return redirect(current.Number, history, exists)
}

// redirect scans prompt numbers above from in ascending order and
// picks the first known number with an unvisited letter. Known numbers
// come from the history and from probing the book; nothing is
// hardcoded. When every known candidate is fully visited the fallback
// is a never-seen number at letter a.
func redirect(from int, history VisitRecord, exists ExistsFunc) Position {
	maxKnown := history.MaxNumber()
	if from > maxKnown {
		maxKnown = from
	}

	for n := from + 1; n <= maxKnown || numberInBook(n, exists); n++ {
		if n > maxKnown {
			maxKnown = n
		}
		if letter, ok := history.LowestUnvisited(n); ok {
			return Position{Number: n, Letter: letter}
		}
	}

	return Position{Number: maxKnown + 1, Letter: LetterA}
}

func numberInBook(number int, exists ExistsFunc) bool {
	if exists == nil {
		return false
	}
	for _, l := range Letters {
		if exists(Position{Number: number, Letter: l}) {
			return true
		}
	}
	return false
}
