package puzzle

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kiliankoe/wheeldash/internal/textnorm"
)

// Placeholder marks a hidden letter in the visible state.
const Placeholder = '-'

const vowels = "aeiou"

var (
	ErrInvalidLetter   = errors.New("not a valid letter")
	ErrLetterNotFound  = errors.New("letter not in puzzle")
	ErrAlreadyRevealed = errors.New("letter already revealed")
)

// Puzzle is a topic/phrase pair with its reveal state. raw, folded and visible are
// always the same length, one entry per rune of the phrase.
type Puzzle struct {
	topic    string
	sep      string
	raw      []rune
	folded   []rune
	visible  []rune
	shown    []bool
	solution string

	// letters present in the phrase and not yet revealed
	vowels     map[rune]struct{}
	consonants map[rune]struct{}
}

func New(topic, phrase, sep string) *Puzzle {
	raw := []rune(norm.NFC.String(strings.TrimSpace(phrase)))
	p := &Puzzle{
		topic:      topic,
		sep:        sep,
		raw:        raw,
		folded:     make([]rune, len(raw)),
		visible:    make([]rune, len(raw)),
		shown:      make([]bool, len(raw)),
		solution:   textnorm.Normalize(string(raw)),
		vowels:     make(map[rune]struct{}),
		consonants: make(map[rune]struct{}),
	}
	for i, r := range raw {
		f := textnorm.FoldRune(r)
		p.folded[i] = f
		if !unicode.IsLetter(f) {
			// spaces and punctuation are never hidden
			p.visible[i] = r
			p.shown[i] = true
			continue
		}
		p.visible[i] = Placeholder
		if IsVowel(f) {
			p.vowels[f] = struct{}{}
		} else {
			p.consonants[f] = struct{}{}
		}
	}
	return p
}

func IsVowel(r rune) bool { return strings.ContainsRune(vowels, r) }

func (p *Puzzle) Topic() string      { return p.topic }
func (p *Puzzle) Sep() string        { return p.sep }
func (p *Puzzle) Phrase() string     { return string(p.raw) }
func (p *Puzzle) Normalized() string { return string(p.folded) }
func (p *Puzzle) Visible() string    { return string(p.visible) }

// Render is what players see: the topic and the masked phrase.
func (p *Puzzle) Render() string { return p.topic + p.sep + string(p.visible) }

func (p *Puzzle) String() string { return p.topic + p.sep + string(p.raw) }

// Contains reports whether the folded letter occurs anywhere in the phrase.
func (p *Puzzle) Contains(letter rune) bool {
	for _, f := range p.folded {
		if f == letter {
			return true
		}
	}
	return false
}

// IsRevealed reports whether letter occurs in the phrase and is already visible.
func (p *Puzzle) IsRevealed(letter rune) bool {
	for i, f := range p.folded {
		if f == letter {
			return p.shown[i]
		}
	}
	return false
}

// Reveal uncovers every position holding letter and returns how many were uncovered.
func (p *Puzzle) Reveal(letter string) (int, error) {
	r, ok := textnorm.Letter(letter)
	if !ok {
		return 0, ErrInvalidLetter
	}
	return p.RevealRune(r)
}

func (p *Puzzle) RevealRune(r rune) (int, error) {
	if !p.Contains(r) {
		return 0, ErrLetterNotFound
	}
	if p.IsRevealed(r) {
		return 0, ErrAlreadyRevealed
	}
	count := 0
	for i, f := range p.folded {
		if f == r {
			p.visible[i] = p.raw[i]
			p.shown[i] = true
			count++
		}
	}
	delete(p.vowels, r)
	delete(p.consonants, r)
	return count, nil
}

// RevealAll shows the whole phrase, as after a correct solve.
func (p *Puzzle) RevealAll() {
	copy(p.visible, p.raw)
	for i := range p.shown {
		p.shown[i] = true
	}
	p.vowels = make(map[rune]struct{})
	p.consonants = make(map[rune]struct{})
}

func (p *Puzzle) Solved() bool {
	for _, s := range p.shown {
		if !s {
			return false
		}
	}
	return true
}

// ConsonantsExhausted is true once every consonant of the phrase is visible. Vowels
// may still be hidden.
func (p *Puzzle) ConsonantsExhausted() bool { return len(p.consonants) == 0 }

func (p *Puzzle) VowelsExhausted() bool { return len(p.vowels) == 0 }

// Matches compares a candidate answer with the phrase, ignoring case and accents.
func (p *Puzzle) Matches(candidate string) bool {
	return textnorm.Normalize(candidate) == p.solution
}
