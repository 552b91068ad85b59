// Package normalize maps sentence text onto a character set the report
// fonts can render. Typographic punctuation is replaced with ASCII and line
// breaks are collapsed to spaces.
package normalize

import "strings"

// CRLF is listed before CR so the pair becomes a single space.
var replacer = strings.NewReplacer(
	"\u2018", "'", // left single quote
	"\u2019", "'", // right single quote
	"\u201C", `"`, // left double quote
	"\u201D", `"`, // right double quote
	"\u2014", "--", // em dash
	"\u2026", "...", // ellipsis
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// TextNormalizer replaces non-ASCII punctuation with ASCII equivalents.
type TextNormalizer struct{}

// New creates a TextNormalizer.
func New() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize returns text with the replacement table applied. Unmapped
// characters pass through unchanged. Normalize(Normalize(s)) == Normalize(s).
func (n *TextNormalizer) Normalize(text string) string {
	return Text(text)
}

// Text is the function form of TextNormalizer.Normalize.
func Text(text string) string {
	return replacer.Replace(text)
}
