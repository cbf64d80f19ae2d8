// Package offline holds the process-wide network gate. Hydrators and the
// launcher consult it before any network-capable step; the state is published
// as one atomic value so concurrent readers never observe a partial update.
package offline

import (
	"fmt"
	"sync/atomic"
)

// Reason records why the gate is in its current position.
type Reason string

const (
	ReasonUnknown      Reason = "unknown"
	ReasonOfflineMode  Reason = "offline_mode"
	ReasonForceOffline Reason = "force_offline"
	ReasonDisabled     Reason = "disabled"
	ReasonReset        Reason = "reset"
)

// Config carries the two flags that drive the gate. force_offline wins over
// offline_mode.
type Config struct {
	OfflineMode  bool `yaml:"offline_mode" json:"offline_mode"`
	ForceOffline bool `yaml:"force_offline" json:"force_offline"`
}

// State is the immutable published value.
type State struct {
	Active bool
	Reason Reason
}

// GuardResult reports whether a network call may proceed. A blocked result
// carries a stable code and a message embedding the caller's context.
type GuardResult struct {
	Allowed   bool
	ErrorCode string
	Message   string
}

const (
	codeBlocked       = "network_blocked_offline"
	codeUninitialized = "network_blocked_uninitialized"
)

// Enforcer is the gate. The zero value is in the Unknown state.
type Enforcer struct {
	state atomic.Pointer[State]
}

var processGate Enforcer

// Gate returns the process-wide enforcer shared by every component.
func Gate() *Enforcer {
	return &processGate
}

// Apply re-derives the state from a configuration. A nil config returns the
// gate to Unknown, matching "no configuration was ever applied".
func (e *Enforcer) Apply(cfg *Config) {
	next := State{Active: false, Reason: ReasonUnknown}
	if cfg != nil {
		switch {
		case cfg.ForceOffline:
			next = State{Active: true, Reason: ReasonForceOffline}
		case cfg.OfflineMode:
			next = State{Active: true, Reason: ReasonOfflineMode}
		default:
			next = State{Active: false, Reason: ReasonDisabled}
		}
	}
	e.state.Store(&next)
}

// Reset forces Disabled for test isolation.
func (e *Enforcer) Reset() {
	next := State{Active: false, Reason: ReasonReset}
	e.state.Store(&next)
}

// Current returns the published state. Before any Apply the gate reads as
// Unknown and inactive.
func (e *Enforcer) Current() State {
	if s := e.state.Load(); s != nil {
		return *s
	}
	return State{Active: false, Reason: ReasonUnknown}
}

// IsOffline reports whether network-capable behavior is currently blocked.
func (e *Enforcer) IsOffline() bool {
	return e.Current().Active
}

// Guard checks whether a network call from the named context may proceed.
// An uninitialized gate fails closed.
func (e *Enforcer) Guard(callContext string) GuardResult {
	state := e.Current()
	if state.Reason == ReasonUnknown {
		return GuardResult{
			Allowed:   false,
			ErrorCode: codeUninitialized,
			Message:   fmt.Sprintf("network call from %s blocked: offline state was never initialized", callContext),
		}
	}
	if state.Active {
		return GuardResult{
			Allowed:   false,
			ErrorCode: codeBlocked,
			Message:   fmt.Sprintf("network call from %s blocked: %s", callContext, state.Reason),
		}
	}
	return GuardResult{Allowed: true}
}
