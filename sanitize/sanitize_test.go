package sanitize

import (
	"strings"
	"testing"
)

func TestNonBrowserToolPassesThrough(t *testing.T) {
	s := New()
	raw := "  raw output with ```fences``` and whitespace  "
	if got := s.Sanitize("search", raw); got != raw {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestFixedConfirmations(t *testing.T) {
	s := New()
	for _, tc := range []struct {
		tool string
		want string
	}{
		{"playwright_screenshot", screenshotMessage},
		{"playwright_navigate", navigationMessage},
		{"playwright_goto_page", navigationMessage},
		{"playwright_click", clickMessage},
	} {
		if got := s.Sanitize(tc.tool, "lots of noisy driver output"); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.tool, tc.want, got)
		}
	}
}

func TestGenericBrowserStripsFences(t *testing.T) {
	s := New()
	raw := "```html\n<div>hello</div>\n```"
	got := s.Sanitize("playwright_fill", raw)
	if strings.Contains(got, "```") {
		t.Errorf("fences must be stripped, got %q", got)
	}
	if !strings.Contains(got, "<div>hello</div>") {
		t.Errorf("content must survive, got %q", got)
	}
}

func TestGenericBrowserEmptyOutputBecomesConfirmation(t *testing.T) {
	s := New()
	if got := s.Sanitize("playwright_hover", "```\n```"); got != completedMessage {
		t.Errorf("expected %q, got %q", completedMessage, got)
	}
	if got := s.Sanitize("playwright_hover", "   \n  "); got != completedMessage {
		t.Errorf("expected %q, got %q", completedMessage, got)
	}
}

func TestContentExtractionTrims(t *testing.T) {
	s := New()
	got := s.Sanitize("playwright_get_visible_content", "\n  page text  \n")
	if got != "page text" {
		t.Errorf("expected trimmed content, got %q", got)
	}
}

func TestContentExtractionTruncationBoundary(t *testing.T) {
	s := New()

	exact := strings.Repeat("a", 1000)
	if got := s.Sanitize("playwright_get_content", exact); got != exact {
		t.Errorf("output of exactly 1000 characters must be unmodified, got %d chars", len(got))
	}

	over := strings.Repeat("a", 1001)
	got := s.Sanitize("playwright_get_content", over)
	if len(got) != 1000 {
		t.Fatalf("expected total length 1000, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncation marker suffix, got %q", got[990:])
	}
	if got[:997] != over[:997] {
		t.Error("expected the first 997 characters to be preserved")
	}
}

func TestSanitizeIsIdempotentOnCleanText(t *testing.T) {
	s := New()
	for _, tc := range []struct {
		tool string
		raw  string
	}{
		{"search", "ordinary output"},
		{"playwright_screenshot", "anything"},
		{"playwright_fill", "```html\n<p>content</p>\n```"},
		{"playwright_get_content", "  short page text  "},
		{"playwright_hover", ""},
	} {
		once := s.Sanitize(tc.tool, tc.raw)
		twice := s.Sanitize(tc.tool, once)
		if once != twice {
			t.Errorf("%s: sanitize is not idempotent: %q vs %q", tc.tool, once, twice)
		}
	}
}

func TestRuleTableOrderPrefersSpecificCategories(t *testing.T) {
	s := New()
	// A screenshot tool is also a playwright tool; the specific rule must
	// win over browser.generic.
	if got := s.Sanitize("mcp_playwright_screenshot", "noise"); got != screenshotMessage {
		t.Errorf("expected the screenshot rule to win, got %q", got)
	}
}
