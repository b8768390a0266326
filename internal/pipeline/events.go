package pipeline

// EventKind discriminates the messages a Runner emits while a batch runs.
type EventKind int

const (
	// EventLog carries a human-readable status line for one row.
	EventLog EventKind = iota
	// EventProgress reports how many rows have completed so far.
	EventProgress
	// EventDone is the terminal outcome: the batch finished, or was
	// cancelled (Err is set).
	EventDone
)

// Event is a one-directional status message from the runner to whoever
// watches the batch. Delivery is fire-and-forget: the runner never reads
// anything back and does not depend on how events are consumed.
type Event struct {
	Kind     EventKind
	Line     string
	RowIndex int
	RowCount int
	Err      error
}
