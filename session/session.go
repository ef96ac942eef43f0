package session

// Turn roles. The model backend distinguishes only the user and the model
// itself; tool results are folded into user turns before submission.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one unit of conversation history. Immutable once appended.
type Turn struct {
	Role    string
	Content string
}

// History is the ordered, append-only conversation log for one process
// lifetime. It is never persisted and never windowed; unbounded growth is an
// accepted simplification. Single-writer, single-reader, so no locking.
type History struct {
	turns []Turn
}

// NewHistory creates an empty conversation history.
func NewHistory() *History {
	return &History{}
}

// Append adds a turn to the end of the history.
func (h *History) Append(t Turn) {
	h.turns = append(h.turns, t)
}

// Snapshot returns a copy of the history in append order. Mutating the
// returned slice does not affect the history.
func (h *History) Snapshot() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of turns recorded so far.
func (h *History) Len() int {
	return len(h.turns)
}
