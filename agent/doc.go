// Package agent implements the orchestration loop at the core of Napier.
//
// One call to [Agent.ProcessTurn] converts one user utterance into the final
// presentable response, possibly involving one or more tool invocations and
// follow-up narrations. The loop is strictly sequential: model output is
// scanned for tool calls, each call is executed against the connected MCP
// session in appearance order, and each result is fed back into the growing
// conversation before the next call is considered, because a later
// narration may depend on conversation state established by an earlier one.
//
// # Paths
//
// With no active tool session the loop runs the direct-chat path: a single
// generation with the persona instructions, nothing else.
//
// With an active session it runs the tool-augmented path:
//
//  1. Enumerate the session's tools and build the tool-augmented system
//     instructions from the current enumeration.
//  2. Generate a response and append it to the history verbatim.
//  3. Extract fenced tool-call blocks. No blocks: the response is final.
//  4. For each block in order: invoke the tool, sanitize the output for
//     display, and ask the model to narrate the raw result. A failed
//     invocation becomes an inline error note; the batch continues.
//  5. Return the tool-result blocks and narrations in execution order.
//
// # Error behavior
//
// Every failure inside a turn is reported, never propagated as a crash. A
// malformed tool-call block or a failed invocation only affects its own slot
// in the output. A model backend failure aborts the turn; the history stays
// consistent because an explicit unanswered marker is appended in place of
// the missing model turn.
//
// # Callbacks
//
// The Callbacks structure decouples the loop from presentation. The terminal
// uses it to announce tool executions and to scope a progress indicator to
// each suspension point: the indicator is acquired immediately before an
// awaited call and released unconditionally before control returns, so it
// can never outlive the call it decorates or alter its outcome.
package agent
