package offline

import (
	"strings"
	"sync"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	var gate Enforcer

	gate.Apply(nil)
	if state := gate.Current(); state.Active || state.Reason != ReasonUnknown {
		t.Fatalf("apply(nil): expected inactive/unknown, got %+v", state)
	}

	gate.Apply(&Config{ForceOffline: true})
	if state := gate.Current(); !state.Active || state.Reason != ReasonForceOffline {
		t.Fatalf("force_offline: expected active/force_offline, got %+v", state)
	}

	// force_offline wins regardless of offline_mode.
	gate.Apply(&Config{ForceOffline: true, OfflineMode: false})
	if !gate.IsOffline() {
		t.Fatal("force_offline alone must read offline")
	}

	gate.Apply(&Config{OfflineMode: true})
	if state := gate.Current(); !state.Active || state.Reason != ReasonOfflineMode {
		t.Fatalf("offline_mode: expected active/offline_mode, got %+v", state)
	}

	gate.Apply(&Config{})
	if state := gate.Current(); state.Active || state.Reason != ReasonDisabled {
		t.Fatalf("both disabled: expected inactive/disabled, got %+v", state)
	}
}

func TestGuardFailsClosedWhenUninitialized(t *testing.T) {
	var gate Enforcer

	res := gate.Guard("remote hydration")
	if res.Allowed {
		t.Fatal("uninitialized gate must block")
	}
	if !strings.Contains(res.Message, "remote hydration") {
		t.Fatalf("blocked message must embed the caller context, got %q", res.Message)
	}
}

func TestGuardEmbedsContextWhenOffline(t *testing.T) {
	var gate Enforcer
	gate.Apply(&Config{OfflineMode: true})

	res := gate.Guard("archive download")
	if res.Allowed {
		t.Fatal("offline gate must block")
	}
	if res.ErrorCode == "" {
		t.Fatal("blocked result must carry an error code")
	}
	if !strings.Contains(res.Message, "archive download") {
		t.Fatalf("blocked message must embed the caller context, got %q", res.Message)
	}

	gate.Apply(&Config{})
	if res := gate.Guard("archive download"); !res.Allowed {
		t.Fatalf("disabled gate must allow, got %+v", res)
	}
}

func TestResetForcesDisabled(t *testing.T) {
	var gate Enforcer
	gate.Apply(&Config{ForceOffline: true})
	gate.Reset()

	if gate.IsOffline() {
		t.Fatal("reset gate must not be offline")
	}
	if state := gate.Current(); state.Reason != ReasonReset {
		t.Fatalf("expected reset reason, got %+v", state)
	}
}

func TestConcurrentReadersSeeWholeStates(t *testing.T) {
	var gate Enforcer
	gate.Apply(&Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				state := gate.Current()
				// Active and Reason must always agree; a torn state would
				// pair Active with a non-offline reason.
				if state.Active && state.Reason != ReasonOfflineMode && state.Reason != ReasonForceOffline {
					t.Errorf("torn state observed: %+v", state)
					return
				}
			}
		}()
	}
	for j := 0; j < 1000; j++ {
		gate.Apply(&Config{ForceOffline: j%2 == 0})
	}
	wg.Wait()
}
