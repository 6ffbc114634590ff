package promptbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/journal-engine/pkg/journal"
)

// Placeholder is shown when a chosen position has no prompt text. A
// missing prompt never blocks progression; the journal keeps its
// position and the player writes freely.
const Placeholder = "The page is blank. Write what comes to you, then roll again."

// SeedMemory optionally gives new journals a starting memory.
type SeedMemory struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Book is a prompt catalog: static text keyed by position ("12b").
// Books are read-only resources loaded from JSON files; the engine
// never writes them.
type Book struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	SeedMemory  *SeedMemory       `json:"seed_memory,omitempty"`
	Entries     map[string]string `json:"entries"`
}

// Key renders a position as an entry key.
func Key(p journal.Position) string {
	return p.String()
}

// ParseKey parses an entry key like "12b" back into a position.
func ParseKey(key string) (journal.Position, error) {
	if len(key) < 2 {
		return journal.Position{}, fmt.Errorf("entry key %q too short", key)
	}
	letter := journal.Letter(key[len(key)-1:])
	if !letter.Valid() {
		return journal.Position{}, fmt.Errorf("entry key %q has invalid letter %q", key, letter)
	}
	number, err := strconv.Atoi(key[:len(key)-1])
	if err != nil {
		return journal.Position{}, fmt.Errorf("entry key %q has invalid number: %w", key, err)
	}
	if number < 1 {
		return journal.Position{}, fmt.Errorf("entry key %q has number below 1", key)
	}
	return journal.Position{Number: number, Letter: letter}, nil
}

// Exists reports whether the book has text for a position.
func (b *Book) Exists(p journal.Position) bool {
	_, ok := b.Entries[Key(p)]
	return ok
}

// Lookup returns the prompt text for a position. The second return is
// false when the book has no entry there.
func (b *Book) Lookup(p journal.Position) (string, bool) {
	text, ok := b.Entries[Key(p)]
	return text, ok
}

// Text returns the prompt for a position, substituting the placeholder
// when the entry is missing. The second return reports whether the
// placeholder was used.
func (b *Book) Text(p journal.Position) (string, bool) {
	if text, ok := b.Lookup(p); ok {
		return text, false
	}
	return Placeholder, true
}

// MaxNumber is the highest prompt number with any entry in the book.
func (b *Book) MaxNumber() int {
	max := 0
	for key := range b.Entries {
		p, err := ParseKey(key)
		if err != nil {
			continue
		}
		if p.Number > max {
			max = p.Number
		}
	}
	return max
}

// Validate checks the book definition: a name, at least one entry,
// well-formed keys, and non-empty prompt text. Errors are collected so
// the validate CLI can report all of them at once.
func (b *Book) Validate() []error {
	var errs []error
	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, fmt.Errorf("book name is required"))
	}
	if len(b.Entries) == 0 {
		errs = append(errs, fmt.Errorf("book has no entries"))
	}
	for key, text := range b.Entries {
		if _, err := ParseKey(key); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(text) == "" {
			errs = append(errs, fmt.Errorf("entry %q has empty prompt text", key))
		}
	}
	return errs
}
