package hydrate

// HydrateAsync runs the identical pipeline on one worker goroutine and
// returns a channel of progress events. The caller drains the channel from
// its owning goroutine; the channel closes after FinishedEvent.
//
// At most one pass is active per hydrator: a second start while one is in
// flight returns started=false and does nothing. After Cancel, events stop
// flowing; the in-flight tool may still finish silently.
func (h *Hydrator) HydrateAsync(refs []Ref) (events <-chan Event, started bool) {
	if !h.running.CompareAndSwap(false, true) {
		return nil, false
	}
	h.cancelled.Store(false)

	ch := make(chan Event, 16)
	go func() {
		defer h.running.Store(false)
		defer close(ch)

		h.run(refs, func(ev Event) {
			if h.cancelled.Load() {
				return
			}
			ch <- ev
		})
	}()
	return ch, true
}
