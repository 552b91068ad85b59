// Package section turns classified sentences into display-ready sections.
package section

import "github.com/gaurav-prasanna/termscan/core"

// Placeholders used when a category has too few sentences.
const (
	NoSubtitle = "No subtitle available"
	NoContent  = "No additional content available"
)

// Builder converts a Classification into ordered sections.
type Builder struct{}

// New creates a Builder.
func New() *Builder {
	return &Builder{}
}

// Build emits one section per category in core.Categories order. The first
// sentence becomes the subtitle and the rest the content. Content is never
// empty: a single placeholder line stands in when there is nothing left.
func (b *Builder) Build(classified core.Classification) []core.Section {
	cats := core.Categories()
	sections := make([]core.Section, 0, len(cats))
	for _, cat := range cats {
		sections = append(sections, buildOne(cat, classified[cat]))
	}
	return sections
}

func buildOne(cat core.Category, items []core.Sentence) core.Section {
	sec := core.Section{Title: cat.String(), Subtitle: NoSubtitle}
	if len(items) > 0 {
		sec.Subtitle = items[0].Text
	}

	if len(items) > 1 {
		sec.Content = make([]string, 0, len(items)-1)
		for _, s := range items[1:] {
			sec.Content = append(sec.Content, s.Text)
		}
	} else {
		sec.Content = []string{NoContent}
	}
	return sec
}
