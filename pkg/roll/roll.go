package roll

import "fmt"

// Roll holds the two dice thrown for a journal turn. The engine does not
// roll dice itself; values arrive from the client already thrown.
type Roll struct {
	D10 int `json:"d10"`
	D6  int `json:"d6"`
}

// Movement is the signed prompt displacement derived from the dice.
// Range is [-5, 9] for valid rolls.
func (r Roll) Movement() int {
	return r.D10 - r.D6
}

// Validate checks that both dice are within their face ranges.
func (r Roll) Validate() error {
	if r.D10 < 1 || r.D10 > 10 {
		return fmt.Errorf("d10 value %d out of range [1,10]", r.D10)
	}
	if r.D6 < 1 || r.D6 > 6 {
		return fmt.Errorf("d6 value %d out of range [1,6]", r.D6)
	}
	return nil
}
