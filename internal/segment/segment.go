// Package segment splits raw text into display units for paced reading.
package segment

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidGroupSize is returned when a group size is below one.
var ErrInvalidGroupSize = errors.New("group size must be at least 1")

// Mode selects whether display units are built from words or sentences.
type Mode int

const (
	// WordGroups groups consecutive words into a unit.
	WordGroups Mode = iota
	// SentenceGroups groups consecutive sentences into a unit.
	SentenceGroups
)

// String returns the config name of the mode.
func (m Mode) String() string {
	switch m {
	case WordGroups:
		return "words"
	case SentenceGroups:
		return "sentences"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as written in config files and flags.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "words", "word", "w":
		return WordGroups, nil
	case "sentences", "sentence", "s":
		return SentenceGroups, nil
	}
	return WordGroups, fmt.Errorf("unknown grouping mode %q", s)
}

// DefaultAbbreviations are the abbreviations that never end a sentence
// unless overridden with WithAbbreviations.
var DefaultAbbreviations = []string{"Mr", "Mr.", "Dr", "Ms", "St", "a", "p", "m", "K"}

// Segmenter turns text into unit sequences. The zero value is not usable;
// construct one with New.
type Segmenter struct {
	abbreviations map[string]bool
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithAbbreviations replaces the abbreviation list. Matching is
// case-insensitive and a trailing period on an entry is ignored.
func WithAbbreviations(abbrevs ...string) Option {
	return func(s *Segmenter) {
		s.abbreviations = makeAbbreviationMap(abbrevs)
	}
}

// New creates a Segmenter using DefaultAbbreviations unless overridden.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{abbreviations: makeAbbreviationMap(DefaultAbbreviations)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var std = New()

// SplitWordGroups splits text into units of groupSize words using the
// default Segmenter.
func SplitWordGroups(text string, groupSize int) ([]string, error) {
	return std.WordGroups(text, groupSize)
}

// SplitSentenceGroups splits text into units of groupSize sentences using
// the default Segmenter.
func SplitSentenceGroups(text string, groupSize int) ([]string, error) {
	return std.SentenceGroups(text, groupSize)
}

// Split dispatches to WordGroups or SentenceGroups.
func (s *Segmenter) Split(text string, mode Mode, groupSize int) ([]string, error) {
	switch mode {
	case WordGroups:
		return s.WordGroups(text, groupSize)
	case SentenceGroups:
		return s.SentenceGroups(text, groupSize)
	}
	return nil, fmt.Errorf("unknown grouping mode %d", mode)
}

// WordGroups partitions the words of text into units of groupSize words.
func (s *Segmenter) WordGroups(text string, groupSize int) ([]string, error) {
	if groupSize < 1 {
		return nil, ErrInvalidGroupSize
	}
	return Group(Words(text), groupSize), nil
}

// SentenceGroups partitions the sentences of text into units of
// groupSize sentences.
func (s *Segmenter) SentenceGroups(text string, groupSize int) ([]string, error) {
	if groupSize < 1 {
		return nil, ErrInvalidGroupSize
	}
	return Group(s.Sentences(text), groupSize), nil
}

// Words splits text into whitespace-delimited tokens.
func Words(text string) []string {
	return strings.Fields(normalizeLineBreaks(text))
}

// WordCount returns the number of words in a unit.
func WordCount(unit string) int {
	return len(strings.Fields(unit))
}

// Group joins consecutive items into chunks of size items separated by a
// single space. The final chunk may be shorter.
func Group(items []string, size int) []string {
	if size < 1 || len(items) == 0 {
		return []string{}
	}
	groups := make([]string, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		groups = append(groups, strings.Join(items[i:end], " "))
	}
	return groups
}

// Sentences splits text into sentences. A boundary is the whitespace run
// following a terminal character (. ! ? … or a closing quote), unless the
// terminal is a period closing a known abbreviation. Three-dot ellipses
// are rewritten as the … glyph.
func (s *Segmenter) Sentences(text string) []string {
	runes := []rune(ellipses.Replace(normalizeLineBreaks(text)))
	sentences := []string{}
	start := 0

	for i := 1; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) || !isTerminal(runes, i-1) {
			continue
		}
		if runes[i-1] == '.' && s.isAbbreviation(runes[start:i-1]) {
			continue
		}

		if sentence := strings.TrimSpace(string(runes[start:i])); sentence != "" {
			sentences = append(sentences, sentence)
		}

		// Skip the whitespace run.
		next := i
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		start = next
		i = next - 1
	}

	if start < len(runes) {
		if sentence := strings.TrimSpace(string(runes[start:])); sentence != "" {
			sentences = append(sentences, sentence)
		}
	}
	return sentences
}

// isAbbreviation reports whether the word ending the given text (which
// stops right before a period) is a known abbreviation.
func (s *Segmenter) isAbbreviation(before []rune) bool {
	wordStart := len(before)
	for wordStart > 0 && !unicode.IsSpace(before[wordStart-1]) {
		wordStart--
	}
	word := strings.ToLower(strings.TrimLeft(string(before[wordStart:]), `"'“‘([`))
	if word == "" {
		return false
	}
	if s.abbreviations[word] {
		return true
	}
	// Dotted forms such as "a.m" end with a listed single-letter part.
	if i := strings.LastIndexByte(word, '.'); i >= 0 {
		return s.abbreviations[word[i+1:]]
	}
	return false
}

func isTerminal(runes []rune, i int) bool {
	switch runes[i] {
	case '.', '!', '?', '…', '"', '”':
		return true
	}
	return false
}

func normalizeLineBreaks(text string) string {
	return lineBreaks.Replace(text)
}

var (
	lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
	ellipses   = strings.NewReplacer("...", "…")
)

func makeAbbreviationMap(abbrevs []string) map[string]bool {
	m := make(map[string]bool, len(abbrevs))
	for _, a := range abbrevs {
		a = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(a), "."))
		if a != "" {
			m[a] = true
		}
	}
	return m
}
