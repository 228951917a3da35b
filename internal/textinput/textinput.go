// Package textinput bridges zwp_text_input_v3 clients to a single
// zwp_input_method_v2, per spec §4.11. No teacher or pack analog exists
// for this protocol bridge; the shape follows internal/sessionlock's
// small-state-plus-capability-interface pattern.
package textinput

import "github.com/fluxbox-wayland/fluxwm/internal/view"

// ContentType mirrors the text-input content-hint/purpose pair, only
// forwarded when the client actually advertised it.
type ContentType struct {
	Hint    uint32
	Purpose uint32
	Set     bool
}

// SurroundingText mirrors the text-input surrounding-text state.
type SurroundingText struct {
	Text   string
	Cursor uint32
	Anchor uint32
	Set    bool
}

// TextInput is one zwp_text_input_v3 object.
type TextInput struct {
	ID     uint32
	Owner  view.ID
	Seat   view.ID // the focused surface this text-input currently targets, if any
	HasSeat bool
	Enabled bool

	Surrounding SurroundingText
	Content     ContentType
}

// InputMethod is the single live zwp_input_method_v2 sink.
type InputMethod interface {
	Activate()
	Deactivate()
	SetSurroundingText(text string, cursor, anchor uint32)
	SetContentType(hint, purpose uint32)
	Done()
	Unavailable()

	Enter(surface any)
	Leave(surface any)
}

// CommitEvent is the input-method commit data spec §4.11 forwards to the
// active text-input.
type CommitEvent struct {
	HasDeleteSurrounding            bool
	DeleteBefore, DeleteAfter        uint32
	HasPreedit                       bool
	PreeditText                      string
	PreeditCursorBegin, PreeditCursorEnd int
	HasCommitText                    bool
	CommitText                       string
}

// TextInputTarget is the backend handle for forwarding an input-method
// commit to the currently active text-input object.
type TextInputTarget interface {
	Enter(surface any)
	Leave()
	Activate()
	SetSurroundingText(text string, cursor, anchor uint32)
	SetContentType(hint, purpose uint32)
	Done()
	DeleteSurrounding(before, after uint32)
	Preedit(text string, cursorBegin, cursorEnd int)
	CommitText(text string)
}

// Manager tracks the live text-input objects, which surface currently
// has keyboard focus, the active text-input, and the single input
// method.
type Manager struct {
	Inputs map[uint32]*TextInput

	FocusedSurface    view.ID
	HasFocusedSurface bool

	ActiveID    uint32
	HasActive   bool

	hasInputMethod bool
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{Inputs: make(map[uint32]*TextInput)}
}

// Register adds a new text-input object.
func (m *Manager) Register(ti *TextInput) {
	if m.Inputs == nil {
		m.Inputs = make(map[uint32]*TextInput)
	}
	m.Inputs[ti.ID] = ti
}

// Unregister removes a text-input object, clearing it as active if it
// was.
func (m *Manager) Unregister(id uint32) {
	delete(m.Inputs, id)
	if m.HasActive && m.ActiveID == id {
		m.HasActive = false
	}
}

// BindInputMethod records that the single input method slot is taken;
// returns false (spec §4.11: "subsequent ones receive unavailable") if
// one is already bound.
func (m *Manager) BindInputMethod(im InputMethod) bool {
	if m.hasInputMethod {
		if im != nil {
			im.Unavailable()
		}
		return false
	}
	m.hasInputMethod = true
	return true
}

// UnbindInputMethod frees the single input-method slot.
func (m *Manager) UnbindInputMethod() {
	m.hasInputMethod = false
	m.HasActive = false
}

// OnKeyboardFocusChange runs spec §4.11's focus-change bridging: send
// enter(surface) to every live text-input owned by the newly focused
// client's surface, send leave to any text-input still targeting a
// different surface, and clear active_text_input if it lost focus.
func (m *Manager) OnKeyboardFocusChange(im InputMethod, newFocus view.ID, hasNewFocus bool, surfaceOf func(view.ID) any) {
	for id, ti := range m.Inputs {
		if ti.HasSeat && (!hasNewFocus || ti.Seat != newFocus) {
			if im != nil {
				im.Leave(surfaceOf(ti.Seat))
			}
			ti.HasSeat = false
		}
		if hasNewFocus && ti.Owner == newFocus {
			ti.Seat, ti.HasSeat = newFocus, true
			if im != nil {
				im.Enter(surfaceOf(newFocus))
			}
		}
		if m.HasActive && m.ActiveID == id && (!hasNewFocus || ti.Owner != newFocus) {
			m.HasActive = false
		}
	}
	m.FocusedSurface, m.HasFocusedSurface = newFocus, hasNewFocus
}

// Enable runs spec §4.11's text-input enable algorithm: if an active
// text-input already exists and differs, the new one is ignored; else it
// becomes active and the input method receives activate + surrounding
// text + content type (only the features actually advertised) + done.
func (m *Manager) Enable(im InputMethod, id uint32) bool {
	ti, ok := m.Inputs[id]
	if !ok {
		return false
	}
	if m.HasActive && m.ActiveID != id {
		return false
	}
	ti.Enabled = true
	m.ActiveID, m.HasActive = id, true
	if im == nil {
		return true
	}
	im.Activate()
	if ti.Surrounding.Set {
		im.SetSurroundingText(ti.Surrounding.Text, ti.Surrounding.Cursor, ti.Surrounding.Anchor)
	}
	if ti.Content.Set {
		im.SetContentType(ti.Content.Hint, ti.Content.Purpose)
	}
	im.Done()
	return true
}

// Disable clears the active text-input's enabled flag, and the active
// slot if it was the one disabled.
func (m *Manager) Disable(id uint32) {
	if ti, ok := m.Inputs[id]; ok {
		ti.Enabled = false
	}
	if m.HasActive && m.ActiveID == id {
		m.HasActive = false
	}
}

// OnInputMethodCommit runs spec §4.11's commit forwarding: reads
// delete_surrounding/preedit/commit_text from ev and forwards each set
// field to the active text-input, ending with done.
func (m *Manager) OnInputMethodCommit(target TextInputTarget, ev CommitEvent) {
	if target == nil {
		return
	}
	if ev.HasDeleteSurrounding {
		target.DeleteSurrounding(ev.DeleteBefore, ev.DeleteAfter)
	}
	if ev.HasPreedit {
		target.Preedit(ev.PreeditText, ev.PreeditCursorBegin, ev.PreeditCursorEnd)
	}
	if ev.HasCommitText {
		target.CommitText(ev.CommitText)
	}
	target.Done()
}

// Active returns the currently active text-input, if any.
func (m *Manager) Active() (*TextInput, bool) {
	if !m.HasActive {
		return nil, false
	}
	ti, ok := m.Inputs[m.ActiveID]
	return ti, ok
}
