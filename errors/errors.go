package errors

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// Kind classifies an error into one of the failure categories the
// interactive loop knows how to recover from. Callers match on the kind
// rather than on message text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration covers a bad or missing configuration file. Always
	// recovered to defaults, never fatal past startup.
	KindConfiguration
	// KindConnection covers MCP session establishment failures: spawn
	// failure, handshake timeout, malformed capability response.
	KindConnection
	// KindNotConnected marks a command that needs an active MCP session
	// when none exists.
	KindNotConnected
	// KindExtraction marks a fenced tool-call block that is not
	// well-formed JSON or lacks a tool name.
	KindExtraction
	// KindToolNotFound marks an invocation of a tool that was not part of
	// the last enumeration.
	KindToolNotFound
	// KindToolExecution wraps whatever the remote tool process reported,
	// including timeouts.
	KindToolExecution
	// KindGeneration covers model backend failures: rate limit, network,
	// malformed response.
	KindGeneration
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindNotConnected:
		return "not connected"
	case KindExtraction:
		return "extraction"
	case KindToolNotFound:
		return "tool not found"
	case KindToolExecution:
		return "tool execution"
	case KindGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

// Error carries a kind alongside the usual message and wrapped cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the category of the error.
func (e *Error) Kind() Kind { return e.kind }

// New creates a new error with file and line number information.
func New(format string, a ...interface{}) error {
	return &Error{kind: KindUnknown, msg: annotate(2, format, a...)}
}

// Wrapf adds context (including file and line number) to an existing error.
// If the provided error is nil, Wrapf returns nil.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindUnknown, msg: annotate(2, format, a...), err: err}
}

// WithKind creates a new error of the given kind.
func WithKind(kind Kind, format string, a ...interface{}) error {
	return &Error{kind: kind, msg: annotate(2, format, a...)}
}

// WrapKind adds context and a kind to an existing error. If the provided
// error is nil, WrapKind returns nil.
func WrapKind(kind Kind, err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: annotate(2, format, a...), err: err}
}

// IsKind reports whether any error in the chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if stderrors.As(err, &e) {
			if e.kind == kind {
				return true
			}
			err = e.err
			continue
		}
		return false
	}
	return false
}

func annotate(skip int, format string, a ...interface{}) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file = "???"
		line = 0
	} else {
		file = filepath.Base(file)
	}
	return fmt.Sprintf("[%s:%d] %s", file, line, fmt.Sprintf(format, a...))
}
