// Package toolcall extracts structured tool-invocation requests from model
// output. The model is instructed to emit each call as a single JSON object
// inside a ```json fenced block; everything outside those blocks is plain
// prose and is never parsed.
package toolcall

import (
	"encoding/json"
	"regexp"

	"github.com/napier-ai/napier/errors"
)

var fencedJSON = regexp.MustCompile("```json\\s*(\\{[^`]*\\})\\s*```")

// Call is one extracted tool invocation request. Ephemeral: constructed
// here, consumed by the tool session, then discarded.
type Call struct {
	Name       string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// Extraction is one fenced block in appearance order: either a well-formed
// Call or the extraction error for that block.
type Extraction struct {
	Call Call
	Err  error
}

// Extract scans the model text for fenced JSON tool-call blocks. A block
// that fails to parse, or that lacks a tool name, yields an Extraction with
// Err set; it never affects neighboring blocks. A text with no blocks yields
// an empty slice.
func Extract(text string) []Extraction {
	matches := fencedJSON.FindAllStringSubmatch(text, -1)
	out := make([]Extraction, 0, len(matches))
	for _, m := range matches {
		var call Call
		if err := json.Unmarshal([]byte(m[1]), &call); err != nil {
			out = append(out, Extraction{
				Err: errors.WrapKind(errors.KindExtraction, err, "invalid JSON in tool call block"),
			})
			continue
		}
		if call.Name == "" {
			out = append(out, Extraction{
				Err: errors.WithKind(errors.KindExtraction, "tool call block is missing tool_name"),
			})
			continue
		}
		if call.Parameters == nil {
			call.Parameters = map[string]any{}
		}
		out = append(out, Extraction{Call: call})
	}
	return out
}
