package ui

import "testing"

func TestDialogOpenResetsTextAndCallback(t *testing.T) {
	d := &Dialog{Text: "stale"}
	d.OpenDialog(func(string) bool { return true })
	if !d.Open || d.Text != "" || d.Submit == nil {
		t.Fatalf("OpenDialog did not reset state: %+v", d)
	}
}

func TestDialogEscapeClosesWithoutSubmit(t *testing.T) {
	called := false
	d := &Dialog{}
	d.OpenDialog(func(string) bool { called = true; return true })
	d.Escape()
	if d.Open || called {
		t.Fatalf("Escape should close without invoking submit: open=%v called=%v", d.Open, called)
	}
}

func TestDialogEnterInvokesSubmitAndClosesOnTrue(t *testing.T) {
	var got string
	d := &Dialog{}
	d.OpenDialog(func(text string) bool { got = text; return true })
	d.AppendRune('h')
	d.AppendRune('i')
	d.Enter()
	if got != "hi" || d.Open {
		t.Fatalf("Enter: got=%q open=%v, want %q false", got, d.Open, "hi")
	}
}

func TestDialogEnterStaysOpenWhenSubmitReturnsFalse(t *testing.T) {
	d := &Dialog{}
	d.OpenDialog(func(string) bool { return false })
	d.Enter()
	if !d.Open {
		t.Fatalf("Enter: dialog closed despite submit returning false")
	}
}

func TestDialogBackspaceRemovesLastRune(t *testing.T) {
	d := &Dialog{}
	d.OpenDialog(func(string) bool { return false })
	d.AppendRune('a')
	d.AppendRune('b')
	d.Backspace()
	if d.Text != "a" {
		t.Fatalf("Text = %q, want %q", d.Text, "a")
	}
	d.Backspace()
	d.Backspace() // no-op on empty text
	if d.Text != "" {
		t.Fatalf("Text = %q, want empty", d.Text)
	}
}

func TestDialogAppendRuneClampsAtMaxBytes(t *testing.T) {
	d := &Dialog{}
	d.OpenDialog(func(string) bool { return false })
	for i := 0; i < MaxDialogBytes; i++ {
		d.AppendRune('x')
	}
	if len(d.Text) != MaxDialogBytes {
		t.Fatalf("len(Text) = %d, want %d", len(d.Text), MaxDialogBytes)
	}
	d.AppendRune('y')
	if len(d.Text) != MaxDialogBytes {
		t.Fatalf("AppendRune exceeded clamp: len = %d", len(d.Text))
	}
}

func TestDialogActionsAreNoOpsWhenClosed(t *testing.T) {
	d := &Dialog{}
	d.AppendRune('a')
	d.Backspace()
	d.Enter()
	d.Escape()
	if d.Open || d.Text != "" {
		t.Fatalf("closed dialog mutated: %+v", d)
	}
}
