package toolcall

import (
	"fmt"
	"testing"

	"github.com/napier-ai/napier/errors"
)

func block(body string) string {
	return fmt.Sprintf("```json\n%s\n```", body)
}

func TestExtractNoBlocks(t *testing.T) {
	got := Extract("Just a normal answer with no tool calls.")
	if len(got) != 0 {
		t.Fatalf("expected no extractions, got %d", len(got))
	}
}

func TestExtractSingleCall(t *testing.T) {
	text := "I'll search for that.\n" +
		block(`{"tool_name": "search", "parameters": {"q": "cats"}}`) +
		"\nLet me run it."

	got := Extract(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 extraction, got %d", len(got))
	}
	if got[0].Err != nil {
		t.Fatalf("unexpected error: %v", got[0].Err)
	}
	if got[0].Call.Name != "search" {
		t.Errorf("expected tool name search, got %q", got[0].Call.Name)
	}
	if got[0].Call.Parameters["q"] != "cats" {
		t.Errorf("expected parameter q=cats, got %v", got[0].Call.Parameters)
	}
}

func TestExtractMultipleCallsInAppearanceOrder(t *testing.T) {
	text := block(`{"tool_name": "first", "parameters": {}}`) +
		"\nsome narration\n" +
		block(`{"tool_name": "second", "parameters": {"n": 2}}`) +
		"\n" +
		block(`{"tool_name": "third", "parameters": {}}`)

	got := Extract(text)
	if len(got) != 3 {
		t.Fatalf("expected 3 extractions, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Call.Name != want {
			t.Errorf("extraction %d: expected %q, got %q", i, want, got[i].Call.Name)
		}
	}
}

func TestExtractMalformedBlockDoesNotAbortNeighbors(t *testing.T) {
	text := block(`{"tool_name": "good_one", "parameters": {}}`) +
		"\n" +
		block(`{"tool_name": "broken", "parameters": }`) + // invalid JSON
		"\n" +
		block(`{"tool_name": "good_two", "parameters": {}}`)

	got := Extract(text)
	if len(got) != 3 {
		t.Fatalf("expected 3 extractions, got %d", len(got))
	}
	if got[0].Err != nil || got[0].Call.Name != "good_one" {
		t.Errorf("first block should be well-formed: %+v", got[0])
	}
	if got[1].Err == nil {
		t.Error("second block should report an extraction failure")
	} else if !errors.IsKind(got[1].Err, errors.KindExtraction) {
		t.Errorf("expected KindExtraction, got %v", got[1].Err)
	}
	if got[2].Err != nil || got[2].Call.Name != "good_two" {
		t.Errorf("third block should be well-formed: %+v", got[2])
	}
}

func TestExtractMissingToolNameIsFailure(t *testing.T) {
	got := Extract(block(`{"parameters": {"q": "cats"}}`))
	if len(got) != 1 {
		t.Fatalf("expected 1 extraction, got %d", len(got))
	}
	if !errors.IsKind(got[0].Err, errors.KindExtraction) {
		t.Errorf("expected KindExtraction, got %v", got[0].Err)
	}
}

func TestExtractParametersDefaultToEmptyMap(t *testing.T) {
	got := Extract(block(`{"tool_name": "ping"}`))
	if len(got) != 1 || got[0].Err != nil {
		t.Fatalf("expected 1 well-formed extraction, got %+v", got)
	}
	if got[0].Call.Parameters == nil {
		t.Error("parameters must default to an empty map")
	}
	if len(got[0].Call.Parameters) != 0 {
		t.Errorf("expected empty parameters, got %v", got[0].Call.Parameters)
	}
}

func TestExtractIgnoresNonJSONFences(t *testing.T) {
	text := "```python\nprint('hi')\n```\n" +
		block(`{"tool_name": "run", "parameters": {}}`)
	got := Extract(text)
	if len(got) != 1 {
		t.Fatalf("expected only the json block to be considered, got %d", len(got))
	}
	if got[0].Call.Name != "run" {
		t.Errorf("unexpected call: %+v", got[0])
	}
}
