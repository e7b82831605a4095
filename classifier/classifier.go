// Package classifier maps a rendered status heading to a service label.
package classifier

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/use-agent/addrcheck/models"
)

// quoteFolder maps typographic quotes to their ASCII forms so a rule written
// with a straight apostrophe matches a heading rendered with a curly one.
var quoteFolder = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"‛", "'",
	"ʼ", "'",
	"“", `"`,
	"”", `"`,
)

type rule struct {
	models.LabelRule
	folded string
}

// Classifier holds an ordered list of label rules. The first rule whose text
// is contained in the heading (case-insensitively) wins.
// It is immutable after New and safe for concurrent use.
type Classifier struct {
	rules []rule
}

// New builds a Classifier from rules, preserving their order.
func New(rules []models.LabelRule) *Classifier {
	c := &Classifier{rules: make([]rule, 0, len(rules))}
	for _, r := range rules {
		c.rules = append(c.rules, rule{LabelRule: r, folded: fold(r.Text)})
	}
	return c
}

// Classify returns the first rule matching heading.
func (c *Classifier) Classify(heading string) (models.LabelRule, bool) {
	h := fold(heading)
	for _, r := range c.rules {
		if strings.Contains(h, r.folded) {
			return r.LabelRule, true
		}
	}
	return models.LabelRule{}, false
}

// Matches reports whether any rule matches heading.
func (c *Classifier) Matches(heading string) bool {
	_, ok := c.Classify(heading)
	return ok
}

// Rules returns a copy of the configured rules in match order.
func (c *Classifier) Rules() []models.LabelRule {
	out := make([]models.LabelRule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.LabelRule
	}
	return out
}

// fold normalises s for case-insensitive substring comparison.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(quoteFolder.Replace(strings.TrimSpace(s)))
}
