// Package moderation masks blacklisted words in chat content before it is persisted.
package moderation

import (
	"log/slog"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator is safe for concurrent use once built: the automaton is read only.
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

// folded is a text reduced to its matchable runes, with the position of each
// rune in the original text.
type folded struct {
	runes  []rune
	origin []int
}

// NewModerator builds the Aho-Corasick automaton over the folded form of every word.
// Words that fold to nothing (pure punctuation) are ignored.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		if pattern := fold(word).runes; len(pattern) > 0 {
			patterns = append(patterns, pattern)
		}
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, censoredChar: censoredChar, log: log}, nil
}

// Censor masks every blacklisted occurrence, separators included, and returns
// the matched dictionary words in order of appearance.
func (m *Moderator) Censor(original string) (string, []string) {
	text := fold(original)
	if len(text.runes) == 0 {
		return original, nil
	}
	terms := m.matcher.MultiPatternSearch(text.runes, false)
	if len(terms) == 0 {
		return original, nil
	}

	out := []rune(original)
	var found []string
	for _, term := range terms {
		start, end := term.Pos, term.Pos+len(term.Word)
		if start < 0 || end > len(text.origin) {
			continue
		}
		for i := text.origin[start]; i <= text.origin[end-1]; i++ {
			out[i] = m.censoredChar
		}
		found = append(found, string(term.Word))
	}

	m.log.Debug("Content censored",
		"lang", whatlanggo.DetectLang(original).Iso6391(),
		"words", len(found))
	return string(out), found
}

func fold(input string) folded {
	source := []rune(input)
	f := folded{runes: make([]rune, 0, len(source)), origin: make([]int, 0, len(source))}
	for i, r := range source {
		clean := unleet(r)
		if isNoise(clean) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(clean))
		f.origin = append(f.origin, i)
	}
	return f
}

// unleet maps common leet speak characters back to letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
