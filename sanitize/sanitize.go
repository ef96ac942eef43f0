// Package sanitize normalizes raw tool output into concise, display-ready
// text. Sanitization is a pure transformation driven by a rule table: each
// rule declares a category, the tool-name patterns that select it, and the
// strategy to apply. The first matching rule wins; unmatched tools pass
// through unchanged.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Output limits for content-extraction tools. Oversized output is cut so it
// stays fit for re-submission to the model and for terminal display.
const (
	maxContentLength = 1000
	truncationMarker = "..."
)

const (
	screenshotMessage = "Screenshot captured successfully."
	navigationMessage = "Navigated to the requested page successfully."
	clickMessage      = "Clicked on the specified element."
	completedMessage  = "Operation completed successfully."
)

// Strategy turns raw tool output into display text.
type Strategy func(raw string) string

// Rule binds a tool category to a sanitization strategy. Patterns are glob
// expressions matched against the lowercased tool name.
type Rule struct {
	Category string
	Patterns []string
	Apply    Strategy
}

// Sanitizer applies the first matching rule of its table.
type Sanitizer struct {
	rules []Rule
}

// New returns a Sanitizer with the default rule table. The browser family
// collapses operational tools to fixed confirmations and bounds extracted
// page content; everything else passes through.
func New() *Sanitizer {
	return &Sanitizer{rules: []Rule{
		{
			Category: "browser.screenshot",
			Patterns: []string{"*playwright*screenshot*", "*screenshot*playwright*"},
			Apply:    fixed(screenshotMessage),
		},
		{
			Category: "browser.navigation",
			Patterns: []string{
				"*playwright*navigate*", "*navigate*playwright*",
				"*playwright*goto*", "*goto*playwright*",
			},
			Apply: fixed(navigationMessage),
		},
		{
			Category: "browser.click",
			Patterns: []string{"*playwright*click*", "*click*playwright*"},
			Apply:    fixed(clickMessage),
		},
		{
			Category: "browser.extract",
			Patterns: []string{"*playwright*get*content*", "*get*content*playwright*"},
			Apply:    extractContent,
		},
		{
			Category: "browser.generic",
			Patterns: []string{"*playwright*"},
			Apply:    genericBrowser,
		},
	}}
}

// Sanitize normalizes raw output from the named tool. Pure: no side effects,
// same input always yields the same output.
func (s *Sanitizer) Sanitize(toolName, raw string) string {
	name := strings.ToLower(toolName)
	for _, rule := range s.rules {
		if matchesAny(name, rule.Patterns) {
			return rule.Apply(raw)
		}
	}
	return raw
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func fixed(message string) Strategy {
	return func(string) string { return message }
}

var openingFence = regexp.MustCompile("```(?:html|xml|markdown)?\n")

// stripFences removes markup code-fence wrappers that browser tools tend to
// wrap page content in.
func stripFences(s string) string {
	s = openingFence.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "```", "")
}

// extractContent keeps page content informative but bounded: fences
// stripped, whitespace trimmed, output capped at maxContentLength.
func extractContent(raw string) string {
	s := strings.TrimSpace(stripFences(raw))
	if r := []rune(s); len(r) > maxContentLength {
		s = string(r[:maxContentLength-len(truncationMarker)]) + truncationMarker
	}
	if s == "" {
		return completedMessage
	}
	return s
}

// genericBrowser strips fences and turns blank output into a fixed
// confirmation so the model never narrates an empty string.
func genericBrowser(raw string) string {
	s := stripFences(raw)
	if strings.TrimSpace(s) == "" {
		return completedMessage
	}
	return s
}
