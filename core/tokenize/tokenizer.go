// Package tokenize implements the SentenceTokenizer interface.
// HTML is reduced to its visible text blocks and every block is split into
// sentences with a rule-based splitter (terminal punctuation followed by
// whitespace, with common abbreviations excepted).
package tokenize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/extract"
)

// abbreviations never end a sentence, compared lower-cased without the dot.
var abbreviations = map[string]bool{
	"e.g": true, "i.e": true, "etc": true, "vs": true, "cf": true, "al": true,
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "st": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "llc": true,
	"no": true, "art": true, "sec": true, "para": true, "p": true, "pp": true,
	"u.s": true, "u.k": true, "e.u": true,
}

// Tokenizer splits HTML into ordered sentences.
type Tokenizer struct {
	extractor *extract.HTMLExtractor
	converter *extract.TextConverter
}

// New creates a Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{
		extractor: extract.New(),
		converter: extract.NewTextConverter(),
	}
}

// Tokenize returns the sentences of the visible text of html in document
// order. Empty input yields no sentences and no error.
func (t *Tokenizer) Tokenize(html string) ([]core.Sentence, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	fragment, err := t.extractor.Extract(html)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	blocks, err := t.converter.Blocks(fragment)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}

	var out []core.Sentence
	for _, block := range blocks {
		for _, s := range Split(block) {
			out = append(out, core.Sentence{Index: len(out), Text: s})
		}
	}
	return out, nil
}

// Split breaks one block of plain text into sentences. Whitespace inside a
// sentence is collapsed to single spaces.
func Split(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Absorb repeated terminators and closing quotes or brackets.
		end := i
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !strings.ContainsRune(".!?\"')]”’", next) {
				break
			}
			end += n
		}

		if end < len(text) && text[end] != ' ' {
			continue
		}
		if r == '.' && !isBoundary(text[start:i-size], text[end:]) {
			continue
		}

		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = end
		i = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// isBoundary decides whether a period after before ends the sentence given
// the text that follows.
func isBoundary(before, after string) bool {
	word := before
	if idx := strings.LastIndexByte(before, ' '); idx >= 0 {
		word = before[idx+1:]
	}
	word = strings.ToLower(strings.TrimLeft(word, "(\"'“‘"))

	if abbreviations[word] {
		return false
	}
	// Single-letter initials such as "J. Smith".
	if utf8.RuneCountInString(word) == 1 && unicode.IsLetter([]rune(word)[0]) {
		return false
	}

	after = strings.TrimLeft(after, " ")
	if after == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(after)
	return !unicode.IsLower(first)
}
