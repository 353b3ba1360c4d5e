package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations never end a sentence when followed by a period.
// Keys are lower case without the trailing period.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"st": true, "sr": true, "jr": true, "rev": true, "gen": true,
	"capt": true, "col": true, "lt": true, "sgt": true, "hon": true,
	"vs": true, "e.g": true, "i.e": true, "cf": true, "fig": true,
	"no": true, "vol": true, "pp": true, "approx": true,
}

const (
	closers = `"')]}’”`
	openers = `"'([{‘“`
)

// splitSentences splits whitespace-normalised text into sentences.
// Words are never split, and joining the sentences with single spaces
// reproduces the input.
func splitSentences(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var sentences []string
	start := 0
	for i, w := range words {
		last := i == len(words)-1
		next := ""
		if !last {
			next = words[i+1]
		}
		if last || endsSentence(w, next) {
			sentences = append(sentences, strings.Join(words[start:i+1], " "))
			start = i + 1
		}
	}
	return sentences
}

// endsSentence reports whether word closes a sentence given the word after it.
func endsSentence(word, next string) bool {
	core := strings.TrimRight(word, closers)
	if core == "" {
		return false
	}

	r, _ := utf8.DecodeLastRuneInString(core)
	switch r {
	case '!', '?':
		return true
	case '.':
		if isAbbreviation(core) {
			return false
		}
		return startsUpper(next)
	default:
		return false
	}
}

// isAbbreviation reports whether a period-terminated word is a title,
// a known abbreviation or a single-letter initial such as "J.".
func isAbbreviation(word string) bool {
	stem := strings.TrimLeft(strings.TrimSuffix(word, "."), openers)
	if utf8.RuneCountInString(stem) == 1 {
		r, _ := utf8.DecodeRuneInString(stem)
		return unicode.IsUpper(r)
	}
	return abbreviations[strings.ToLower(stem)]
}

// startsUpper reports whether word begins with an upper-case letter,
// ignoring opening quotes and brackets.
func startsUpper(word string) bool {
	word = strings.TrimLeft(word, openers)
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
