package textinput

import (
	"testing"

	"github.com/fluxbox-wayland/fluxwm/internal/view"
)

type fakeIM struct {
	activated, deactivated, done, unavailable bool
	surroundingText                           string
	contentHint, contentPurpose               uint32
	entered, left                             []any
}

func (f *fakeIM) Activate()   { f.activated = true }
func (f *fakeIM) Deactivate() { f.deactivated = true }
func (f *fakeIM) SetSurroundingText(text string, cursor, anchor uint32) { f.surroundingText = text }
func (f *fakeIM) SetContentType(hint, purpose uint32)                  { f.contentHint, f.contentPurpose = hint, purpose }
func (f *fakeIM) Done()        { f.done = true }
func (f *fakeIM) Unavailable() { f.unavailable = true }
func (f *fakeIM) Enter(s any)  { f.entered = append(f.entered, s) }
func (f *fakeIM) Leave(s any)  { f.left = append(f.left, s) }

func TestBindInputMethodRejectsSecond(t *testing.T) {
	m := NewManager()
	im1, im2 := &fakeIM{}, &fakeIM{}
	if !m.BindInputMethod(im1) {
		t.Fatal("expected first bind to succeed")
	}
	if m.BindInputMethod(im2) {
		t.Fatal("expected second bind to be rejected")
	}
	if !im2.unavailable {
		t.Fatal("expected second input method to receive unavailable")
	}
}

func TestOnKeyboardFocusChangeEntersAndLeaves(t *testing.T) {
	m := NewManager()
	ti := &TextInput{ID: 1, Owner: view.ID(100)}
	m.Register(ti)

	im := &fakeIM{}
	surfOf := func(id view.ID) any { return id }

	m.OnKeyboardFocusChange(im, view.ID(100), true, surfOf)
	if !ti.HasSeat || ti.Seat != view.ID(100) {
		t.Fatalf("expected text-input to enter the newly focused surface, got %+v", ti)
	}
	if len(im.entered) != 1 {
		t.Fatalf("expected one enter call, got %d", len(im.entered))
	}

	m.OnKeyboardFocusChange(im, view.ID(200), true, surfOf)
	if ti.HasSeat {
		t.Fatal("expected text-input to leave when focus moves to a different surface")
	}
	if len(im.left) != 1 {
		t.Fatalf("expected one leave call, got %d", len(im.left))
	}
}

func TestEnableSendsActivateSurroundingContentDone(t *testing.T) {
	m := NewManager()
	ti := &TextInput{ID: 1, Owner: 100}
	ti.Surrounding = SurroundingText{Text: "hello", Cursor: 5, Anchor: 5, Set: true}
	ti.Content = ContentType{Hint: 1, Purpose: 2, Set: true}
	m.Register(ti)

	im := &fakeIM{}
	if !m.Enable(im, 1) {
		t.Fatal("expected Enable to succeed")
	}
	if !im.activated || !im.done {
		t.Fatal("expected activate+done")
	}
	if im.surroundingText != "hello" {
		t.Fatalf("expected surrounding text forwarded, got %q", im.surroundingText)
	}
	if im.contentHint != 1 || im.contentPurpose != 2 {
		t.Fatalf("expected content type forwarded, got (%d,%d)", im.contentHint, im.contentPurpose)
	}
}

func TestEnableIgnoresSecondWhileFirstActive(t *testing.T) {
	m := NewManager()
	ti1 := &TextInput{ID: 1, Owner: 100}
	ti2 := &TextInput{ID: 2, Owner: 200}
	m.Register(ti1)
	m.Register(ti2)

	im := &fakeIM{}
	m.Enable(im, 1)
	if m.Enable(im, 2) {
		t.Fatal("expected second Enable to be ignored while first is active")
	}
	active, ok := m.Active()
	if !ok || active.ID != 1 {
		t.Fatal("expected first text-input to remain active")
	}
}

type fakeTarget struct {
	deletedBefore, deletedAfter uint32
	preeditText                 string
	committedText               string
	done                        bool
}

func (f *fakeTarget) Enter(any)                                {}
func (f *fakeTarget) Leave()                                   {}
func (f *fakeTarget) Activate()                                {}
func (f *fakeTarget) SetSurroundingText(string, uint32, uint32) {}
func (f *fakeTarget) SetContentType(uint32, uint32)             {}
func (f *fakeTarget) Done()                                     { f.done = true }
func (f *fakeTarget) DeleteSurrounding(before, after uint32)    { f.deletedBefore, f.deletedAfter = before, after }
func (f *fakeTarget) Preedit(text string, _, _ int)             { f.preeditText = text }
func (f *fakeTarget) CommitText(text string)                    { f.committedText = text }

func TestOnInputMethodCommitForwardsSetFieldsOnly(t *testing.T) {
	m := NewManager()
	target := &fakeTarget{}
	m.OnInputMethodCommit(target, CommitEvent{
		HasCommitText: true,
		CommitText:    "hi",
	})
	if target.committedText != "hi" {
		t.Fatalf("expected commit text forwarded, got %q", target.committedText)
	}
	if target.deletedBefore != 0 || target.deletedAfter != 0 {
		t.Fatal("expected delete_surrounding not forwarded when unset")
	}
	if !target.done {
		t.Fatal("expected done forwarded")
	}
}
