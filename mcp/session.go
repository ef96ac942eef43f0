package mcp

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/napier-ai/napier/config"
	"github.com/napier-ai/napier/errors"
	"github.com/rs/zerolog/log"
)

// Tool describes one tool enumerated from the connected server. The input
// schema is opaque to Napier; it is only forwarded into the model prompt.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Session owns the connection to at most one MCP server process at a time.
// It is accessed from a single logical thread, so it carries no locking.
type Session struct {
	serverName string
	cmd        *exec.Cmd
	conn       *mcpsdk.ClientSession
	tools      []Tool
	index      map[string]struct{}
}

// NewSession creates a disconnected session.
func NewSession() *Session {
	return &Session{}
}

// Connected reports whether a server connection is active.
func (s *Session) Connected() bool {
	return s.conn != nil
}

// ServerName returns the identity of the connected server: the logical name
// for registry connections, the script path for direct ones. Empty when
// disconnected.
func (s *Session) ServerName() string {
	return s.serverName
}

// Connect launches the server process described by desc and performs the MCP
// handshake and tool enumeration. Any previously active connection is
// released first, so at most one connection exists afterward. On success the
// post-connect hook registered for the server identity, if any, runs before
// the tools are considered usable.
func (s *Session) Connect(ctx context.Context, name string, desc config.Server) ([]Tool, error) {
	if err := s.Close(); err != nil {
		log.Warn().Err(err).Msg("error releasing previous MCP connection")
	}

	cmd := exec.Command(desc.Command, desc.Args...)
	cmd.Stderr = os.Stderr
	if len(desc.Env) > 0 {
		cmd.Env = mergedEnv(desc.Env)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "napier", Version: "1.0.0"}, nil)
	conn, err := client.Connect(ctx, mcpsdk.NewCommandTransport(cmd))
	if err != nil {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		return nil, errors.WrapKind(errors.KindConnection, err, "failed to connect to MCP server '%s'", name)
	}

	tools, err := enumerateTools(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapKind(errors.KindConnection, err, "failed to list tools from MCP server '%s'", name)
	}

	s.serverName = name
	s.cmd = cmd
	s.conn = conn
	s.tools = tools
	s.index = make(map[string]struct{}, len(tools))
	for _, t := range tools {
		s.index[t.Name] = struct{}{}
	}

	log.Info().Str("server", name).Int("tools", len(tools)).Msg("connected to MCP server")

	if hook, ok := lookupPostConnectHook(name); ok {
		if err := hook(ctx); err != nil {
			// Environment preparation is best-effort; the connection stays up.
			log.Warn().Err(err).Str("server", name).Msg("post-connect hook failed")
		}
	}

	return tools, nil
}

// ConnectScript connects to a server given as a script path, inferring the
// interpreter from the extension.
func (s *Session) ConnectScript(ctx context.Context, path string) ([]Tool, error) {
	command, err := scriptCommand(path)
	if err != nil {
		return nil, err
	}
	return s.Connect(ctx, path, config.Server{Command: command, Args: []string{path}})
}

// Tools returns the tools enumerated at connect time.
func (s *Session) Tools() ([]Tool, error) {
	if s.conn == nil {
		return nil, errors.WithKind(errors.KindNotConnected, "not connected to any MCP server")
	}
	return s.tools, nil
}

// Invoke calls a named tool with the given parameters and returns its
// textual content.
func (s *Session) Invoke(ctx context.Context, name string, params map[string]any) (string, error) {
	if s.conn == nil {
		return "", errors.WithKind(errors.KindNotConnected, "not connected to any MCP server")
	}
	if _, ok := s.index[name]; !ok {
		return "", errors.WithKind(errors.KindToolNotFound, "tool '%s' is not provided by server '%s'", name, s.serverName)
	}

	result, err := s.conn.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: params,
	})
	if err != nil {
		return "", errors.WrapKind(errors.KindToolExecution, err, "failed to call tool '%s'", name)
	}

	var text string
	for _, c := range result.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			text += tc.Text
		}
	}
	if result.IsError {
		return "", errors.WithKind(errors.KindToolExecution, "tool '%s' reported an error: %s", name, text)
	}
	return text, nil
}

// Close releases the connection and the server process. Idempotent; safe on
// a session that never connected.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}

	log.Info().Str("server", s.serverName).Msg("disconnecting from MCP server")
	err := s.conn.Close()
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}

	s.serverName = ""
	s.cmd = nil
	s.conn = nil
	s.tools = nil
	s.index = nil
	return err
}

// enumerateTools lists all tools from the server, following pagination
// cursors until exhausted.
func enumerateTools(ctx context.Context, conn *mcpsdk.ClientSession) ([]Tool, error) {
	var tools []Tool
	params := &mcpsdk.ListToolsParams{}
	for {
		list, err := conn.ListTools(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, t := range list.Tools {
			tool := Tool{Name: t.Name, Description: t.Description}
			if t.InputSchema != nil {
				if raw, err := json.Marshal(t.InputSchema); err == nil {
					tool.InputSchema = raw
				}
			}
			tools = append(tools, tool)
		}
		if list.NextCursor == "" {
			return tools, nil
		}
		params.Cursor = list.NextCursor
	}
}

// scriptCommand infers the interpreter for a server script path.
func scriptCommand(path string) (string, error) {
	switch {
	case strings.HasSuffix(path, ".py"):
		return "python", nil
	case strings.HasSuffix(path, ".js"):
		return "node", nil
	default:
		return "", errors.WithKind(errors.KindConnection, "server script must be a .py or .js file: %s", path)
	}
}

func mergedEnv(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
