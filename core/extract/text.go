package extract

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// TextConverter turns an HTML fragment into plain-text blocks. HTML is
// converted to Markdown first so block boundaries (paragraphs, list items,
// headings, table cells) survive; Markdown syntax is then stripped.
type TextConverter struct{}

// NewTextConverter creates a TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

var (
	commentRe    = regexp.MustCompile(`^<!--.*-->$`)
	headingRe    = regexp.MustCompile(`^#{1,6}\s+`)
	listItemRe   = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
	blockquoteRe = regexp.MustCompile(`^(?:>\s?)+`)
	ruleRe       = regexp.MustCompile(`^(?:[-*_]\s*){3,}$`)
	tableSepRe   = regexp.MustCompile(`^\|?[\s:|-]+\|?$`)
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	strongRe     = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	emRe         = regexp.MustCompile(`(^|[\s(])[*_]([^*_\s][^*_]*?)[*_]([\s).,;:!?]|$)`)
	codeRe       = regexp.MustCompile("`([^`]+)`")
	escapeRe     = regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!|<>~])`)
)

// Blocks converts an HTML fragment into trimmed, non-empty text blocks in
// document order. Lines of one paragraph, including hard line breaks, form
// a single block; headings, list items, table cells and code lines each
// start a new one.
func (c *TextConverter) Blocks(fragment string) ([]string, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, nil
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}

	var b blockBuilder
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			b.flush()
			inFence = !inFence
			continue
		}
		if inFence {
			// Code is not prose; keep each line as its own block.
			b.single(trimmed)
			continue
		}
		if trimmed == "" || commentRe.MatchString(trimmed) || ruleRe.MatchString(trimmed) || tableSepRe.MatchString(trimmed) {
			b.flush()
			continue
		}

		if strings.HasPrefix(trimmed, "|") {
			b.flush()
			for _, cell := range strings.Split(strings.Trim(trimmed, "|"), "|") {
				b.single(cell)
			}
			continue
		}

		content := strings.TrimSpace(blockquoteRe.ReplaceAllString(trimmed, ""))
		if content == "" {
			b.flush()
			continue
		}
		// A trailing backslash is a hard line break.
		content = strings.TrimSpace(strings.TrimSuffix(content, "\\"))

		switch {
		case headingRe.MatchString(content):
			b.flush()
			b.single(content)
		case listItemRe.MatchString(content):
			b.flush()
			b.add(content)
		default:
			b.add(content)
		}
	}
	b.flush()
	return b.blocks, nil
}

// blockBuilder joins continuation lines into one block.
type blockBuilder struct {
	blocks []string
	lines  []string
}

func (b *blockBuilder) add(line string) {
	b.lines = append(b.lines, line)
}

func (b *blockBuilder) single(line string) {
	b.flush()
	b.add(line)
	b.flush()
}

func (b *blockBuilder) flush() {
	if len(b.lines) == 0 {
		return
	}
	if text := plainText(strings.Join(b.lines, " ")); text != "" {
		b.blocks = append(b.blocks, text)
	}
	b.lines = b.lines[:0]
}

// plainText strips block markers and inline Markdown formatting from a line.
func plainText(line string) string {
	line = strings.TrimSpace(line)
	line = blockquoteRe.ReplaceAllString(line, "")
	line = headingRe.ReplaceAllString(line, "")
	line = listItemRe.ReplaceAllString(line, "")

	line = imageRe.ReplaceAllString(line, "$1")
	line = linkRe.ReplaceAllString(line, "$1")
	line = strongRe.ReplaceAllString(line, "$2")
	line = emRe.ReplaceAllString(line, "$1$2$3")
	line = codeRe.ReplaceAllString(line, "$1")
	line = escapeRe.ReplaceAllString(line, "$1")

	return strings.Join(strings.Fields(line), " ")
}
