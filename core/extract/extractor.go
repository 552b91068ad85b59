// Package extract turns a rendered HTML page into visible text.
// It isolates the main content from a full HTML page by:
//  1. Removing noise and hidden elements (scripts, nav, forms, [hidden], etc.)
//  2. Finding the best content container (<main>, <article>, or <body>)
//
// and then converts that fragment into plain-text blocks (see text.go).
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are HTML elements removed before extraction.
// Footers are kept: legal notices often live there.
var noiseSelectors = []string{
	"head", "script", "style", "noscript", "template",
	"nav", "header",
	"img", "picture", "figure", "svg", "canvas",
	"iframe", "video", "audio", "object", "embed",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
	".cookie-banner",
}

// hiddenSelectors match content a browser would not show.
var hiddenSelectors = []string{
	"[hidden]",
	`[aria-hidden="true"]`,
	`[style*="display:none"]`,
	`[style*="display: none"]`,
	`[style*="visibility:hidden"]`,
	`[style*="visibility: hidden"]`,
}

// containers are tried in order; <main> is the most specific.
var containers = []string{"main", "[role=main]", "article", "body"}

// Page is the visible part of an HTML document.
type Page struct {
	Title    string
	Fragment string
}

// HTMLExtractor strips noise from HTML and returns the main content fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns a cleaned HTML fragment holding only the visible main
// content of html.
func (e *HTMLExtractor) Extract(html string) (string, error) {
	page, err := e.ExtractPage(html)
	if err != nil {
		return "", err
	}
	return page.Fragment, nil
}

// ExtractPage is Extract plus the document <title>.
func (e *HTMLExtractor) ExtractPage(html string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, fmt.Errorf("parsing HTML: %w", err)
	}

	title := strings.Join(strings.Fields(doc.Find("head title").First().Text()), " ")

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	for _, sel := range hiddenSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, sel := range containers {
		if found := doc.Find(sel); found.Length() > 0 {
			content = found.First()
			break
		}
	}
	if content == nil {
		return Page{}, fmt.Errorf("no content container found in HTML")
	}

	inner, err := content.Html()
	if err != nil {
		return Page{}, fmt.Errorf("serializing content: %w", err)
	}
	return Page{Title: title, Fragment: inner}, nil
}
