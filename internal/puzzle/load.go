package puzzle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultSeparator splits topic from phrase on each content line.
const DefaultSeparator = ": "

var (
	ErrNotFound = errors.New("puzzle file not found")
	ErrFormat   = errors.New("malformed puzzle line")
)

// Entry is one parsed content line.
type Entry struct {
	Topic  string
	Phrase string
}

// FormatError points at the first line without a separator.
type FormatError struct {
	Line int
	Text string
	Sep  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: missing separator %q in %q", e.Line, e.Sep, e.Text)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Parse reads topic<sep>phrase lines. Blank lines are skipped; the phrase keeps
// everything after the first separator.
func Parse(r io.Reader, sep string) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		topic, phrase, ok := strings.Cut(line, sep)
		if !ok {
			return nil, &FormatError{Line: n, Text: line, Sep: sep}
		}
		out = append(out, Entry{Topic: topic, Phrase: strings.TrimSpace(phrase)})
	}
	return out, sc.Err()
}

// Load parses the content file at path.
func Load(path, sep string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	defer f.Close()
	entries, err := Parse(f, sep)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
