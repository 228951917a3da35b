// Package ui implements the command dialog, workspace OSD, and the tray
// helper subprocess lifecycle (spec §4.8, §9's teardown note). There is no
// teacher or pack analog for any of these; each follows the same small-
// explicit-state-struct shape as internal/focus/internal/grab rather than
// an interface-heavy design, since none of them need a capability
// boundary against another leaf package.
package ui

// MaxDialogBytes is the input clamp spec §4.8 names for the command
// dialog's text entry.
const MaxDialogBytes = 4096

// SubmitFunc is the dialog's registered submit callback (spec §4.8:
// "Enter invokes the registered submit callback with the current text;
// returning true from the callback closes the dialog").
type SubmitFunc func(text string) bool

// Dialog is the one-line command-entry prompt (spec §4.8).
type Dialog struct {
	Open   bool
	Text   string
	Submit SubmitFunc
}

// OpenDialog shows the dialog with empty text and the given submit
// callback. Opening the dialog closes any open menu — the caller (the
// menu Manager's owner) is responsible for calling menu.Manager.CloseRoot
// alongside this, since this package never imports internal/menu.
func (d *Dialog) OpenDialog(submit SubmitFunc) {
	d.Open = true
	d.Text = ""
	d.Submit = submit
}

// Close hides the dialog without invoking Submit (spec §4.8: "Escape
// closes without action").
func (d *Dialog) Close() {
	d.Open = false
	d.Text = ""
	d.Submit = nil
}

// Escape implements the Escape key (spec §4.8).
func (d *Dialog) Escape() {
	if !d.Open {
		return
	}
	d.Close()
}

// Enter implements the Enter key: invokes Submit with the current text,
// closing the dialog only if Submit returns true (spec §4.8).
func (d *Dialog) Enter() {
	if !d.Open || d.Submit == nil {
		return
	}
	if d.Submit(d.Text) {
		d.Close()
	}
}

// Backspace deletes the last UTF-8 codepoint (spec §4.8).
func (d *Dialog) Backspace() {
	if !d.Open || d.Text == "" {
		return
	}
	r := []rune(d.Text)
	d.Text = string(r[:len(r)-1])
}

// AppendRune appends a printable, modifier-free codepoint, clamped to
// MaxDialogBytes (spec §4.8).
func (d *Dialog) AppendRune(r rune) {
	if !d.Open {
		return
	}
	candidate := d.Text + string(r)
	if len(candidate) > MaxDialogBytes {
		return
	}
	d.Text = candidate
}
