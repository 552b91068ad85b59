// Package render — PDF renderer.
// Lays out a Report as a paginated A4 PDF using gofpdf: a centered report
// title, then per section a bold title, an italic subtitle and wrapped body
// lines. All text is normalized and encoded to Windows-1252, the encoding
// of the core PDF fonts.
package render

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/normalize"
	"github.com/gaurav-prasanna/termscan/core/section"
)

const (
	fontFamily      = "Helvetica"
	pageBreakMargin = 15.0
	lineHeight      = 10.0
	bodyLineHeight  = 8.0
	sectionSpacing  = 10.0

	unknownSection   = "Unknown Section"
	noSectionContent = "No content available for this section."
)

// DefaultCreationDate is stamped into every PDF so identical reports encode
// to identical bytes.
var DefaultCreationDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// PDFRenderer renders a Report as a PDF document.
type PDFRenderer struct {
	CreationDate time.Time
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{CreationDate: DefaultCreationDate}
}

// Render lays out the report and returns the PDF bytes. It fails with
// core.ErrUnsupportedCharacter when any text cannot be encoded after
// normalization.
func (r *PDFRenderer) Render(report core.Report) ([]byte, error) {
	doc, err := prepare(report)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(r.CreationDate)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(true, pageBreakMargin)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "", 12)
	pdf.SetY(10)
	pdf.CellFormat(0, lineHeight, doc.Title, "", 1, "C", false, 0, "")

	for _, sec := range doc.Sections {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.CellFormat(0, lineHeight, sec.Title, "", 1, "L", false, 0, "")

		pdf.SetFont(fontFamily, "I", 12)
		pdf.MultiCell(0, bodyLineHeight, sec.Subtitle, "", "L", false)

		pdf.SetFont(fontFamily, "", 12)
		for _, line := range sec.Content {
			pdf.MultiCell(0, bodyLineHeight, line, "", "L", false)
		}

		pdf.Ln(sectionSpacing)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// prepare fills defaults, normalizes and encodes every string of the
// report. The returned report holds Windows-1252 byte strings.
func prepare(report core.Report) (core.Report, error) {
	title, err := encodeText(report.Title)
	if err != nil {
		return core.Report{}, fmt.Errorf("report title: %w", err)
	}
	out := core.Report{Title: title, Sections: make([]core.Section, 0, len(report.Sections))}

	for i, sec := range report.Sections {
		if sec.Title == "" {
			sec.Title = unknownSection
		}
		// Defaults for fields missing from hand-written input; Build never
		// leaves them empty.
		if sec.Subtitle == "" {
			sec.Subtitle = section.NoSubtitle
		}
		content := sec.Content
		if len(content) == 0 {
			content = []string{noSectionContent}
		}

		enc := core.Section{Content: make([]string, 0, len(content))}
		if enc.Title, err = encodeText(sec.Title); err != nil {
			return core.Report{}, fmt.Errorf("section %d title: %w", i, err)
		}
		if enc.Subtitle, err = encodeText(sec.Subtitle); err != nil {
			return core.Report{}, fmt.Errorf("section %d subtitle: %w", i, err)
		}
		for j, line := range content {
			e, err := encodeText(line)
			if err != nil {
				return core.Report{}, fmt.Errorf("section %d line %d: %w", i, j, err)
			}
			enc.Content = append(enc.Content, e)
		}
		out.Sections = append(out.Sections, enc)
	}
	return out, nil
}

// encodeText normalizes s and encodes it to Windows-1252.
func encodeText(s string) (string, error) {
	s = normalize.Text(s)
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return "", fmt.Errorf("%w: invalid UTF-8 at byte %d", core.ErrUnsupportedCharacter, i)
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return "", fmt.Errorf("%w: %q (U+%04X)", core.ErrUnsupportedCharacter, r, r)
		}
		buf = append(buf, b)
		i += size
	}
	return string(buf), nil
}
