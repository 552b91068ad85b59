// Package classify assigns sentences to legal-document categories using
// ordered lexical rules. The first matching rule wins; sentences that match
// no rule are dropped.
package classify

import (
	"strings"

	"github.com/gaurav-prasanna/termscan/core"
)

// Rule tags a sentence with Category when Match reports true. Match receives
// the lower-cased sentence text.
type Rule struct {
	Category core.Category
	Match    func(lower string) bool
}

// ContainsAny returns a matcher for plain substring tests. There are no word
// boundary checks: "afterright" matches "right".
func ContainsAny(needles ...string) func(string) bool {
	return func(lower string) bool {
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the built-in rule order. Rights is tested first, so a
// sentence mentioning both a right and a term is always Rights.
func DefaultRules() []Rule {
	return []Rule{
		{Category: core.Rights, Match: ContainsAny("right")},
		{Category: core.TermsOfUse, Match: ContainsAny("term", "agreement")},
	}
}

// Classifier applies rules in priority order.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier. With no rules it uses DefaultRules.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Match returns the category of the first rule matching s.
func (c *Classifier) Match(s core.Sentence) (core.Category, bool) {
	lower := strings.ToLower(s.Text)
	for _, r := range c.rules {
		if r.Match(lower) {
			return r.Category, true
		}
	}
	return 0, false
}

// Tag returns the matched sentences as (sentence, category) pairs in input
// order.
func (c *Classifier) Tag(sentences []core.Sentence) []core.ClassifiedSentence {
	tagged := make([]core.ClassifiedSentence, 0, len(sentences))
	for _, s := range sentences {
		if cat, ok := c.Match(s); ok {
			tagged = append(tagged, core.ClassifiedSentence{Sentence: s, Category: cat})
		}
	}
	return tagged
}

// Classify groups sentences by category, preserving input order within
// each category. Every category from core.Categories is present in the
// result. The second return value counts dropped sentences.
func (c *Classifier) Classify(sentences []core.Sentence) (core.Classification, int) {
	out := make(core.Classification, len(core.Categories()))
	for _, cat := range core.Categories() {
		out[cat] = []core.Sentence{}
	}

	tagged := c.Tag(sentences)
	for _, cs := range tagged {
		out[cs.Category] = append(out[cs.Category], cs.Sentence)
	}
	return out, len(sentences) - len(tagged)
}
