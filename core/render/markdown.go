// Package render provides output renderers for termscan reports.
// This file implements the Markdown renderer, a plain-text view of the
// same sections the PDF shows.
package render

import (
	"strings"

	"github.com/gaurav-prasanna/termscan/core"
)

// MarkdownRenderer writes a Report as Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the report as Markdown bytes. Unlike the PDF renderer it
// keeps the original characters.
func (r *MarkdownRenderer) Render(report core.Report) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# " + oneLine(report.Title) + "\n\n")

	for _, sec := range report.Sections {
		b.WriteString("## " + oneLine(sec.Title) + "\n\n")
		b.WriteString("*" + oneLine(sec.Subtitle) + "*\n\n")
		for _, line := range sec.Content {
			b.WriteString(oneLine(line) + "\n\n")
		}
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
