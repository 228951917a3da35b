package ui

import (
	"testing"
	"time"
)

func TestOSDShowDisplaysWorkspaceLabel(t *testing.T) {
	o := NewOSD(0)
	if o.AutoHideMS != DefaultAutoHideMS {
		t.Fatalf("AutoHideMS = %d, want default %d", o.AutoHideMS, DefaultAutoHideMS)
	}
	o.Show(3, "Workspace 3")
	if !o.Visible || o.Text() != "3: Workspace 3" {
		t.Fatalf("Show: visible=%v text=%q", o.Visible, o.Text())
	}
}

func TestOSDTickHidesAfterDeadline(t *testing.T) {
	now := time.Unix(0, 0)
	o := NewOSD(100)
	o.now = func() time.Time { return now }
	o.Show(1, "Workspace 1")

	o.Tick()
	if !o.Visible {
		t.Fatalf("Tick hid the OSD before its deadline")
	}

	now = now.Add(200 * time.Millisecond)
	o.Tick()
	if o.Visible {
		t.Fatalf("Tick did not hide the OSD after its deadline")
	}
}
