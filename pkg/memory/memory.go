package memory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxExperiences is the capacity of one memory.
	MaxExperiences = 3
	// MaxActive is the cap on non-retired memories in a pool. Archived
	// memories still hold a slot until they are retired.
	MaxActive = 5
)

var (
	ErrCorruptPool    = errors.New("corrupt memory pool")
	ErrMemoryNotFound = errors.New("memory not found")
	ErrMemoryRetired  = errors.New("memory is retired")
)

// Experience is one immutable journal entry inside a memory.
type Experience struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Memory is a bounded container of up to three experiences. Archiving
// moves it to long-term storage and stops new experiences landing in
// it; retiring frees its pool slot permanently and freezes it.
type Memory struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Experiences []Experience `json:"experiences"`
	Archived    bool         `json:"archived,omitempty"`
	Retired     bool         `json:"retired,omitempty"`
}

// Open reports whether the memory can accept another experience.
func (m Memory) Open() bool {
	return !m.Archived && !m.Retired && len(m.Experiences) < MaxExperiences
}

// Pool is the ordered set of a journal's memories.
type Pool []Memory

// OutcomeKind tells the caller what Record did with a response.
type OutcomeKind string

const (
	OutcomeAppended         OutcomeKind = "appended"
	OutcomeCreated          OutcomeKind = "created"
	OutcomeCapacityExceeded OutcomeKind = "capacity_exceeded"
)

// Outcome is the result of a Record call. MemoryID is set for
// appended and created outcomes.
type Outcome struct {
	Kind     OutcomeKind `json:"kind"`
	MemoryID string      `json:"memory_id,omitempty"`
}

// Blocked reports whether the response could not be placed.
func (o Outcome) Blocked() bool {
	return o.Kind == OutcomeCapacityExceeded
}

// Record places a response text into the pool and returns a new pool
// plus the outcome. The first open memory in pool order receives the
// experience; with no open memory and a free slot, a new memory is
// created with a derived title. With five non-retired memories and
// none open the pool is returned unchanged and the outcome is
// capacity_exceeded: the player must archive or retire a memory first.
// Record never evicts.
func Record(text string, pool Pool) (Pool, Outcome) {
	out := pool.Clone()

	for i := range out {
		if out[i].Open() {
			out[i].Experiences = append(out[i].Experiences, newExperience(text))
			return out, Outcome{Kind: OutcomeAppended, MemoryID: out[i].ID}
		}
	}

	if out.ActiveCount() >= MaxActive {
		return pool, Outcome{Kind: OutcomeCapacityExceeded}
	}

	m := Memory{
		ID:          ulid.Make().String(),
		Title:       DeriveTitle(text),
		Experiences: []Experience{newExperience(text)},
	}
	out = append(out, m)
	return out, Outcome{Kind: OutcomeCreated, MemoryID: m.ID}
}

// Archive marks a memory as moved to long-term storage. It keeps its
// pool slot until retired. Archiving an already-archived memory is a
// no-op; a retired memory is frozen and cannot transition.
func Archive(pool Pool, memoryID string) (Pool, error) {
	out := pool.Clone()
	i := out.index(memoryID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMemoryNotFound, memoryID)
	}
	if out[i].Retired {
		return nil, fmt.Errorf("%w: %s", ErrMemoryRetired, memoryID)
	}
	out[i].Archived = true
	return out, nil
}

// Retire permanently frees a memory's pool slot. There is no
// un-retire; retiring twice is a no-op.
func Retire(pool Pool, memoryID string) (Pool, error) {
	out := pool.Clone()
	i := out.index(memoryID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMemoryNotFound, memoryID)
	}
	out[i].Retired = true
	return out, nil
}

// ActiveCount is the number of non-retired memories, the figure the
// five-slot cap applies to.
func (p Pool) ActiveCount() int {
	count := 0
	for _, m := range p {
		if !m.Retired {
			count++
		}
	}
	return count
}

// Get returns the memory with the given ID.
func (p Pool) Get(memoryID string) (Memory, bool) {
	if i := p.index(memoryID); i >= 0 {
		return p[i], true
	}
	return Memory{}, false
}

// Clone returns a deep copy of the pool.
func (p Pool) Clone() Pool {
	out := make(Pool, len(p))
	for i, m := range p {
		out[i] = m
		out[i].Experiences = append([]Experience(nil), m.Experiences...)
	}
	return out
}

// Validate fails fast on corrupted persisted state: a pool over the
// non-retired cap or a memory over its experience capacity.
func (p Pool) Validate() error {
	if n := p.ActiveCount(); n > MaxActive {
		return fmt.Errorf("%w: %d non-retired memories exceeds cap of %d", ErrCorruptPool, n, MaxActive)
	}
	for _, m := range p {
		if m.ID == "" {
			return fmt.Errorf("%w: memory with empty id", ErrCorruptPool)
		}
		if len(m.Experiences) > MaxExperiences {
			return fmt.Errorf("%w: memory %s holds %d experiences, cap is %d", ErrCorruptPool, m.ID, len(m.Experiences), MaxExperiences)
		}
	}
	return nil
}

func (p Pool) index(memoryID string) int {
	for i := range p {
		if p[i].ID == memoryID {
			return i
		}
	}
	return -1
}

func newExperience(text string) Experience {
	return Experience{
		ID:        ulid.Make().String(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

const titleWordLimit = 6

var titleCaser = cases.Title(language.English)

// DeriveTitle builds a memory title from the opening words of its
// first experience.
func DeriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "Untitled Memory"
	}
	truncated := len(words) > titleWordLimit
	if truncated {
		words = words[:titleWordLimit]
	}
	title := titleCaser.String(strings.Join(words, " "))
	title = strings.TrimRight(title, ".,;:!?")
	if truncated {
		title += "..."
	}
	return title
}

// Seed builds a pool containing one starting memory, used when a
// prompt book defines a seed memory for new journals.
func Seed(title, text string) Pool {
	m := Memory{
		ID:    ulid.Make().String(),
		Title: title,
	}
	if m.Title == "" {
		m.Title = DeriveTitle(text)
	}
	if text != "" {
		m.Experiences = []Experience{newExperience(text)}
	}
	return Pool{m}
}
