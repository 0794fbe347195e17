package puzzle

import (
	"errors"
	"math/rand"
)

var (
	ErrEmpty     = errors.New("no puzzles left to play")
	ErrNoCurrent = errors.New("no current puzzle")
)

// Set is the pool of puzzles still available for the game.
type Set struct {
	puzzles []*Puzzle
	current *Puzzle
	rng     *rand.Rand
}

func NewSet(puzzles []*Puzzle, rng *rand.Rand) *Set {
	ps := make([]*Puzzle, len(puzzles))
	copy(ps, puzzles)
	return &Set{puzzles: ps, rng: rng}
}

// FromEntries builds one Puzzle per entry, all sharing the same separator.
func FromEntries(entries []Entry, sep string, rng *rand.Rand) *Set {
	ps := make([]*Puzzle, 0, len(entries))
	for _, e := range entries {
		ps = append(ps, New(e.Topic, e.Phrase, sep))
	}
	return &Set{puzzles: ps, rng: rng}
}

func (s *Set) Len() int { return len(s.puzzles) }
func (s *Set) Current() *Puzzle { return s.current }

// Draw picks a remaining puzzle uniformly at random and makes it current.
func (s *Set) Draw() (*Puzzle, error) {
	if len(s.puzzles) == 0 {
		s.current = nil
		return nil, ErrEmpty
	}
	s.current = s.puzzles[s.rng.Intn(len(s.puzzles))]
	return s.current, nil
}

// DropCurrent removes the current puzzle from the pool. With no current puzzle it
// reports ErrNoCurrent and leaves the pool alone.
func (s *Set) DropCurrent() error {
	if s.current == nil {
		return ErrNoCurrent
	}
	for i, p := range s.puzzles {
		if p == s.current {
			s.puzzles = append(s.puzzles[:i], s.puzzles[i+1:]...)
			break
		}
	}
	s.current = nil
	return nil
}
