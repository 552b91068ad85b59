// Package core defines the data model and pipeline interfaces for termscan.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// Sentence is a single tokenized sentence and its position in the input.
type Sentence struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Category is a fixed label a sentence can be classified into.
type Category int

const (
	Rights Category = iota
	TermsOfUse
)

// categoryOrder is the report section order. It must not change per run.
var categoryOrder = []Category{Rights, TermsOfUse}

// Categories returns every category in report order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// String returns the display name used as the section title.
func (c Category) String() string {
	switch c {
	case Rights:
		return "Rights"
	case TermsOfUse:
		return "Terms of Use"
	default:
		return "Unknown"
	}
}

// ClassifiedSentence pairs a sentence with the category it matched.
type ClassifiedSentence struct {
	Sentence Sentence
	Category Category
}

// Classification maps every category to its matched sentences in input order.
// Categories without matches map to an empty slice, never a missing key.
type Classification map[Category][]Sentence

// Section is the display-ready block derived from one category.
type Section struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Content  []string `json:"content"`
}

// Report is the ordered list of sections rendered into one artifact.
type Report struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// ContentFetcher retrieves rendered HTML for a URL. It returns "" when the
// page cannot be fetched; failures never propagate into the pipeline.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// SentenceTokenizer turns HTML into an ordered sequence of sentences.
type SentenceTokenizer interface {
	Tokenize(html string) ([]Sentence, error)
}

// Renderer converts a Report into a final output format.
type Renderer interface {
	Render(report Report) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
