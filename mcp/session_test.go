package mcp

import (
	"context"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/napier-ai/napier/errors"
)

func TestDisconnectedSessionErrors(t *testing.T) {
	s := NewSession()

	if s.Connected() {
		t.Error("fresh session must not report connected")
	}
	if s.ServerName() != "" {
		t.Errorf("fresh session must have no server name, got %q", s.ServerName())
	}

	if _, err := s.Tools(); !errors.IsKind(err, errors.KindNotConnected) {
		t.Errorf("Tools on a disconnected session: expected KindNotConnected, got %v", err)
	}
	if _, err := s.Invoke(context.Background(), "search", nil); !errors.IsKind(err, errors.KindNotConnected) {
		t.Errorf("Invoke on a disconnected session: expected KindNotConnected, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewSession()
	for i := 0; i < 3; i++ {
		if err := s.Close(); err != nil {
			t.Fatalf("Close #%d on a disconnected session: %v", i+1, err)
		}
	}
}

func TestInvokeUnknownToolIsRejectedBeforeTransport(t *testing.T) {
	// The name check runs against the last enumeration, before any call
	// reaches the transport.
	s := &Session{
		serverName: "fake",
		conn:       &mcpsdk.ClientSession{},
		index:      map[string]struct{}{"search": {}},
	}
	if _, err := s.Invoke(context.Background(), "missing", nil); !errors.IsKind(err, errors.KindToolNotFound) {
		t.Errorf("expected KindToolNotFound, got %v", err)
	}
}

func TestScriptCommandInference(t *testing.T) {
	for _, tc := range []struct {
		path    string
		command string
		wantErr bool
	}{
		{"server.py", "python", false},
		{"tools/server.js", "node", false},
		{"server.rb", "", true},
		{"server", "", true},
	} {
		command, err := scriptCommand(tc.path)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error", tc.path)
			} else if !errors.IsKind(err, errors.KindConnection) {
				t.Errorf("%s: expected KindConnection, got %v", tc.path, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.path, err)
			continue
		}
		if command != tc.command {
			t.Errorf("%s: expected %q, got %q", tc.path, tc.command, command)
		}
	}
}

func TestPostConnectHookLookup(t *testing.T) {
	if _, ok := lookupPostConnectHook("weather"); ok {
		t.Error("no hook expected for an ordinary server")
	}
	if _, ok := lookupPostConnectHook("playwright"); !ok {
		t.Error("expected a hook for the playwright server")
	}
	// Keyed by identity, case-insensitive.
	if _, ok := lookupPostConnectHook("Playwright"); !ok {
		t.Error("hook lookup must be case-insensitive")
	}
}

func TestMergedEnvAppendsDescriptorVariables(t *testing.T) {
	t.Setenv("NAPIER_TEST_BASE", "1")
	env := mergedEnv(map[string]string{"EXTRA_VAR": "yes"})

	var haveBase, haveExtra bool
	for _, kv := range env {
		switch kv {
		case "NAPIER_TEST_BASE=1":
			haveBase = true
		case "EXTRA_VAR=yes":
			haveExtra = true
		}
	}
	if !haveBase {
		t.Error("process environment must be preserved")
	}
	if !haveExtra {
		t.Error("descriptor environment must be appended")
	}
}
