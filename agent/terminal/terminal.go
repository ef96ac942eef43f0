package terminal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/napier-ai/napier/agent"
	"github.com/napier-ai/napier/config"
	"github.com/napier-ai/napier/mcp"
	"github.com/rs/zerolog/log"
)

const welcomeText = `Model Context Protocol Client

Commands:
• /connect <path_to_server> - Connect to an MCP server
• /connect-server <server_name> - Connect to a configured MCP server
• /servers - List configured MCP servers
• /tools - List available MCP tools
• /help - Show help information
• /exit or /quit - Exit the application

Start chatting directly with Napier!`

const helpText = `Available commands:
• /connect <path_to_server> - Connect to an MCP server
• /connect-server <server_name> - Connect to a configured MCP server
• /servers - List configured MCP servers
• /tools - List available MCP tools
• /help - Display this help message
• /exit or /quit - Exit the application

Chat directly with Napier or use MCP tools when connected
• Type normally to chat with Napier
• Type '/use <tool_name> <request>' to specifically use an MCP tool`

// Terminal handles the interactive command-line mode.
type Terminal struct {
	agent    *agent.Agent
	cfg      *config.Config
	mcp      *mcp.Session
	in       io.Reader
	out      io.Writer
	renderer *glamour.TermRenderer
}

// New creates a Terminal bound to stdin/stdout.
func New(a *agent.Agent, cfg *config.Config, sess *mcp.Session) *Terminal {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		log.Debug().Err(err).Msg("markdown renderer unavailable, printing plain text")
		renderer = nil
	}
	return &Terminal{
		agent:    a,
		cfg:      cfg,
		mcp:      sess,
		in:       os.Stdin,
		out:      os.Stdout,
		renderer: renderer,
	}
}

// Run starts the interactive session. An optional initial target is treated
// as a direct server-script connection before the first prompt.
func (t *Terminal) Run(ctx context.Context, initialTarget string) error {
	fmt.Fprintln(t.out, renderPanel("", banner+"\nNapier - Chat with AI and connect to third-party apps"))
	fmt.Fprintln(t.out, renderPanel("", welcomeText))

	if initialTarget != "" {
		t.connectScript(ctx, initialTarget)
	}

	scanner := bufio.NewScanner(t.in)
	for {
		fmt.Fprint(t.out, t.prompt())
		if !scanner.Scan() {
			// EOF ends the session.
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := t.handleLine(ctx, line); quit {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

func (t *Terminal) prompt() string {
	if t.mcp.Connected() {
		return promptStyle.Render("Napier") + fmt.Sprintf(" (%s) > ", t.mcp.ServerName())
	}
	return promptStyle.Render("Napier") + " > "
}

// handleLine dispatches one line of input. Returns true when the session
// should end.
func (t *Terminal) handleLine(ctx context.Context, line string) bool {
	lower := strings.ToLower(line)
	switch {
	case lower == "/exit" || lower == "/quit":
		fmt.Fprintln(t.out, warnStyle.Render("Exiting Napier..."))
		return true
	case strings.HasPrefix(lower, "/connect "):
		t.connectScript(ctx, strings.TrimSpace(line[len("/connect "):]))
	case strings.HasPrefix(lower, "/connect-server "):
		t.connectServer(ctx, strings.TrimSpace(line[len("/connect-server "):]))
	case lower == "/servers":
		t.showServers()
	case lower == "/tools":
		t.showTools()
	case lower == "/help":
		fmt.Fprintln(t.out, renderPanel("Napier Help", helpText))
	case strings.HasPrefix(lower, "/use "):
		t.useTool(ctx, strings.TrimSpace(line[len("/use "):]))
	case strings.HasPrefix(line, "/"):
		fmt.Fprintln(t.out, warnStyle.Render("Unknown command. Type '/help' for assistance."))
	default:
		t.chat(ctx, line)
	}
	return false
}

func (t *Terminal) connectScript(ctx context.Context, path string) {
	fmt.Fprintln(t.out, warnStyle.Render(fmt.Sprintf("Connecting to MCP server: %s...", path)))
	tools, err := t.mcp.ConnectScript(ctx, path)
	if err != nil {
		fmt.Fprintln(t.out, errorStyle.Render(fmt.Sprintf("Error connecting to server: %v", err)))
		return
	}
	t.showConnectionPanel("MCP Server Connection", tools)
}

func (t *Terminal) connectServer(ctx context.Context, name string) {
	descriptor, ok := t.cfg.Resolve(name)
	if !ok {
		fmt.Fprintln(t.out, errorStyle.Render(fmt.Sprintf("Error: Server '%s' not found in configuration.", name)))
		return
	}

	fmt.Fprintln(t.out, warnStyle.Render(fmt.Sprintf("Connecting to MCP server: %s...", name)))
	tools, err := t.mcp.Connect(ctx, name, descriptor)
	if err != nil {
		fmt.Fprintln(t.out, errorStyle.Render(fmt.Sprintf("Error connecting to server: %v", err)))
		return
	}
	t.showConnectionPanel(fmt.Sprintf("MCP Server: %s", name), tools)
}

func (t *Terminal) showConnectionPanel(title string, tools []mcp.Tool) {
	fmt.Fprintln(t.out, successStyle.Render("Successfully connected to server!"))
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, tool := range tools {
		fmt.Fprintf(&b, "• %s\n", tool.Name)
	}
	fmt.Fprintln(t.out, renderPanel(title, strings.TrimRight(b.String(), "\n")))
}

func (t *Terminal) showServers() {
	names := t.cfg.ServerNames()
	if len(names) == 0 {
		fmt.Fprintln(t.out, warnStyle.Render("No MCP servers configured. Add servers to "+config.DefaultPath+"."))
		return
	}
	var b strings.Builder
	b.WriteString("Configured MCP Servers:\n\n")
	for _, name := range names {
		srv, _ := t.cfg.Resolve(name)
		fmt.Fprintf(&b, "• %s: %s %s\n", name, srv.Command, strings.Join(srv.Args, " "))
	}
	fmt.Fprintln(t.out, renderPanel("MCP Servers", strings.TrimRight(b.String(), "\n")))
}

func (t *Terminal) showTools() {
	tools, err := t.mcp.Tools()
	if err != nil {
		fmt.Fprintln(t.out, warnStyle.Render("Not connected to any MCP server. Use '/connect <path_to_server>' first."))
		return
	}
	var b strings.Builder
	b.WriteString("Available MCP Tools:\n\n")
	for _, tool := range tools {
		fmt.Fprintf(&b, "• %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Fprintln(t.out, renderPanel("Available Tools", strings.TrimRight(b.String(), "\n")))
}

func (t *Terminal) useTool(ctx context.Context, rest string) {
	if !t.mcp.Connected() {
		fmt.Fprintln(t.out, warnStyle.Render("Not connected to any MCP server. Use '/connect <path_to_server>' first."))
		return
	}
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		fmt.Fprintln(t.out, warnStyle.Render("Please provide a query to use with the tool."))
		return
	}
	t.chat(ctx, fmt.Sprintf("I want to use the '%s' tool to %s", parts[0], parts[1]))
}

func (t *Terminal) chat(ctx context.Context, input string) {
	text, err := t.agent.ProcessTurn(ctx, input, t.callbacks())
	if text != "" {
		fmt.Fprintln(t.out, t.renderMarkdown(text))
	}
	if err != nil {
		fmt.Fprintln(t.out, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
	}
}

func (t *Terminal) callbacks() agent.Callbacks {
	return agent.Callbacks{
		OnToolCall: func(name string, params map[string]any) {
			fmt.Fprintln(t.out, infoStyle.Render("Executing tool: ")+name)
			if encoded, err := json.MarshalIndent(params, "", "  "); err == nil {
				fmt.Fprintln(t.out, infoStyle.Render("Parameters: ")+string(encoded))
			}
		},
		OnToolResult: func(name, result string) {
			log.Debug().Str("tool", name).Int("len", len(result)).Msg("tool result sanitized")
		},
		Progress: func(message string) func() {
			return startSpinner(t.out, message)
		},
	}
}

func (t *Terminal) renderMarkdown(text string) string {
	if t.renderer == nil {
		return text
	}
	rendered, err := t.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
