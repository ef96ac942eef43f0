package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/napier-ai/napier/config"
	"github.com/napier-ai/napier/llm"
	"github.com/napier-ai/napier/mcp"
	"github.com/napier-ai/napier/sanitize"
	"github.com/napier-ai/napier/session"
	"github.com/napier-ai/napier/toolcall"
)

// Temperature for the direct-chat path. The tool-augmented path uses the
// configured model temperature instead.
const directChatTemperature = 0.7

// unansweredMarker stands in for the model turn when a generation fails, so
// the preceding user turn is never left dangling in the history.
const unansweredMarker = "(no response)"

const invalidCallMessage = "Error: Invalid tool call format detected."

// ToolSession is the tool-providing side the loop talks to. *mcp.Session
// implements it; tests substitute fakes.
type ToolSession interface {
	Connected() bool
	Tools() ([]mcp.Tool, error)
	Invoke(ctx context.Context, name string, params map[string]any) (string, error)
}

// Callbacks let an interaction mode observe the loop without being part of
// it. Progress returns a stop function; the loop guarantees it is called
// before any other callback fires or control returns.
type Callbacks struct {
	OnToolCall   func(name string, params map[string]any)
	OnToolResult func(name, result string)
	Progress     func(message string) (stop func())
}

func (c Callbacks) normalized() Callbacks {
	if c.OnToolCall == nil {
		c.OnToolCall = func(string, map[string]any) {}
	}
	if c.OnToolResult == nil {
		c.OnToolResult = func(string, string) {}
	}
	if c.Progress == nil {
		c.Progress = func(string) func() { return func() {} }
	}
	return c
}

// Agent drives the orchestration loop. It owns the conversation history and
// holds the model gateway, the tool session, and the output sanitizer. All
// fields are accessed from a single logical thread.
type Agent struct {
	Config    *config.Config
	History   *session.History
	LLM       llm.Client
	Tools     ToolSession
	Sanitizer *sanitize.Sanitizer
}

// New creates an agent with an empty conversation history.
func New(cfg *config.Config, client llm.Client, tools ToolSession) *Agent {
	return &Agent{
		Config:    cfg,
		History:   session.NewHistory(),
		LLM:       client,
		Tools:     tools,
		Sanitizer: sanitize.New(),
	}
}

// ProcessTurn converts one user utterance into the final presentable text.
// Errors are returned for display; the caller keeps the loop alive.
func (a *Agent) ProcessTurn(ctx context.Context, input string, cb Callbacks) (string, error) {
	cb = cb.normalized()
	a.History.Append(session.Turn{Role: session.RoleUser, Content: input})

	if a.Tools == nil || !a.Tools.Connected() {
		return a.directChat(ctx, input, cb)
	}
	return a.toolChat(ctx, input, cb)
}

// directChat is a single generation with the persona instructions.
func (a *Agent) directChat(ctx context.Context, input string, cb Callbacks) (string, error) {
	text, err := a.generate(ctx, directSystemPrompt, input, directChatTemperature, cb)
	if err != nil {
		a.History.Append(session.Turn{Role: session.RoleModel, Content: unansweredMarker})
		return "", err
	}
	a.History.Append(session.Turn{Role: session.RoleModel, Content: text})
	return text, nil
}

// toolChat runs the tool-augmented protocol: generate, extract, execute each
// call in order, narrate each result.
func (a *Agent) toolChat(ctx context.Context, input string, cb Callbacks) (string, error) {
	tools, err := a.Tools.Tools()
	if err != nil {
		a.History.Append(session.Turn{Role: session.RoleModel, Content: unansweredMarker})
		return "", err
	}

	system := toolSystemPrompt(tools)
	temperature := a.Config.Napier.Temperature

	response, err := a.generate(ctx, system, input, temperature, cb)
	if err != nil {
		a.History.Append(session.Turn{Role: session.RoleModel, Content: unansweredMarker})
		return "", err
	}
	// The initial response is recorded verbatim, raw tool-call syntax
	// included, so later turns see what the model actually said.
	a.History.Append(session.Turn{Role: session.RoleModel, Content: response})

	extractions := toolcall.Extract(response)
	if len(extractions) == 0 {
		return response, nil
	}

	var parts []string
	for _, ex := range extractions {
		if ex.Err != nil {
			parts = append(parts, invalidCallMessage)
			continue
		}

		cb.OnToolCall(ex.Call.Name, ex.Call.Parameters)

		raw, err := a.invoke(ctx, ex.Call, cb)
		if err != nil {
			parts = append(parts, fmt.Sprintf("Error executing tool: %v", err))
			continue
		}

		clean := a.Sanitizer.Sanitize(ex.Call.Name, raw)
		cb.OnToolResult(ex.Call.Name, clean)
		parts = append(parts, fmt.Sprintf("\n[Tool Result]\n%s\n", clean))

		// The narration sees the raw result; the sanitized form is only for
		// display and re-reading by humans.
		followup := followupPrompt(ex.Call.Name, raw)
		a.History.Append(session.Turn{Role: session.RoleUser, Content: followup})

		narration, err := a.generate(ctx, system, followup, temperature, cb)
		if err != nil {
			a.History.Append(session.Turn{Role: session.RoleModel, Content: unansweredMarker})
			parts = append(parts, fmt.Sprintf("Error processing query: %v", err))
			break
		}
		a.History.Append(session.Turn{Role: session.RoleModel, Content: narration})
		parts = append(parts, narration)
	}

	return strings.Join(parts, "\n"), nil
}

// generate wraps one model exchange in a scoped progress indicator. The
// indicator is released on every path out.
func (a *Agent) generate(ctx context.Context, system, prompt string, temperature float32, cb Callbacks) (string, error) {
	stop := cb.Progress("Thinking")
	defer stop()
	return a.LLM.Generate(ctx, a.History.Snapshot(), system, prompt, temperature)
}

// invoke wraps one tool execution in a scoped progress indicator.
func (a *Agent) invoke(ctx context.Context, call toolcall.Call, cb Callbacks) (string, error) {
	stop := cb.Progress("Executing " + call.Name)
	defer stop()
	return a.Tools.Invoke(ctx, call.Name, call.Parameters)
}
