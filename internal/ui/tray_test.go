package ui

import "testing"

func TestTrayStartEmptyCommandIsNoOp(t *testing.T) {
	tr := &Tray{}
	if err := tr.Start(""); err != nil {
		t.Fatalf("Start(\"\") = %v, want nil", err)
	}
	if tr.Running() {
		t.Fatalf("Running() = true with no command configured")
	}
}

func TestTrayStartAndStopLifecycle(t *testing.T) {
	tr := &Tray{}
	if err := tr.Start("sleep 5"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !tr.Running() {
		t.Fatalf("Running() = false right after Start")
	}
	if err := tr.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if tr.Running() {
		t.Fatalf("Running() = true after Stop")
	}
}

func TestTrayStartReplacesPreviousHelper(t *testing.T) {
	tr := &Tray{}
	if err := tr.Start("sleep 5"); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := tr.Start("sleep 5"); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if !tr.Running() {
		t.Fatalf("Running() = false after replacing helper")
	}
	tr.Stop()
}
