package hydrate

// Event is a progress notification emitted by HydrateAsync. Events are
// delivered on a channel drained by the single owning goroutine; workers
// never touch caller state directly.
type Event interface {
	hydrationEvent()
}

// StartedEvent marks the beginning of one tool's install.
type StartedEvent struct {
	Ref Ref
}

// ProgressEvent reports remote download progress. BytesTotal is zero when the
// server did not declare a length.
type ProgressEvent struct {
	Ref        Ref
	BytesDone  int64
	BytesTotal int64
}

// CompletedEvent marks the end of one tool's install.
type CompletedEvent struct {
	Ref     Ref
	Success bool
	Message string
}

// FinishedEvent closes a hydration pass.
type FinishedEvent struct {
	Success bool
	Failed  []Ref
}

func (StartedEvent) hydrationEvent()   {}
func (ProgressEvent) hydrationEvent()  {}
func (CompletedEvent) hydrationEvent() {}
func (FinishedEvent) hydrationEvent()  {}
