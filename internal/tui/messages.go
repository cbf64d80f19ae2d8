package tui

// RowUpdateMsg updates a single tool row's status and detail text.
type RowUpdateMsg struct {
	Key    string
	Status string
	Detail string
}

// RowProgressMsg updates the download ratio for a tool row.
type RowProgressMsg struct {
	Key        string
	BytesDone  int64
	BytesTotal int64
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
