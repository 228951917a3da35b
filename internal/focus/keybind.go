package focus

import "github.com/fluxbox-wayland/fluxwm/internal/wlsink"

// ChainTimeoutMs is the keychain timeout spec §4.2/§5 names: a chain
// expires 5000 ms after it started, or on an unmatched non-modifier key.
const ChainTimeoutMs = 5000

// KeyCombo identifies a binding by keycode-or-keysym plus modifier mask;
// which of the two a given entry uses is a matter for the config loader,
// not this package — Code here is whichever the loader chose to bind on.
type KeyCombo struct {
	Code uint32
	Mods wlsink.ModState
}

// chainModePrefix marks the synthetic mode name a keychain prefix key
// switches to, per spec §4.2: "a temporary synthetic mode
// (__internal_chain_...)".
const chainModePrefix = "__internal_chain_"

// KeyBinding is one key-binding table entry: either a leaf action or a
// keychain prefix into another mode.
type KeyBinding struct {
	Combo      KeyCombo
	Action     string // empty if this is a chain prefix
	ChainMode  string // nonempty if this is a chain prefix
}

// Mode is a named table of key bindings (spec §4.2: "the active key-mode
// chooses a table").
type Mode map[KeyCombo]KeyBinding

// Engine holds every mode plus the currently active one and any
// in-progress keychain state.
type Engine struct {
	Modes      map[string]Mode
	ActiveMode string

	chainMode    string
	inChain      bool
	chainStartMs int64
}

// NewEngine returns an Engine with an empty "default" mode active.
func NewEngine() *Engine {
	return &Engine{Modes: map[string]Mode{"default": {}}, ActiveMode: "default"}
}

// Dispatch looks up combo in the active mode (the chain mode if a chain is
// in progress and not yet timed out), running the resolved leaf action
// via run, or entering/staying in a chain. isModifier lets the caller
// exempt pure modifier keypresses from the "unmatched non-modifier key
// cancels the chain" rule. Returns whether the key was consumed.
func (e *Engine) Dispatch(combo KeyCombo, nowMs int64, isModifier bool, run func(action string)) bool {
	mode := e.ActiveMode
	if e.inChain {
		if nowMs-e.chainStartMs > ChainTimeoutMs {
			e.endChain()
		} else {
			mode = e.chainMode
		}
	}

	table, ok := e.Modes[mode]
	if !ok {
		e.endChain()
		return false
	}
	b, ok := table[combo]
	if !ok {
		if e.inChain && !isModifier {
			e.endChain()
		}
		return false
	}

	if b.ChainMode != "" {
		e.inChain = true
		e.chainMode = b.ChainMode
		e.chainStartMs = nowMs
		return true
	}

	e.endChain()
	run(b.Action)
	return true
}

func (e *Engine) endChain() {
	e.inChain = false
	e.chainMode = ""
}

// InChain reports whether a keychain is currently in progress.
func (e *Engine) InChain() bool {
	return e.inChain
}

// Bind installs a leaf binding into mode, creating the mode table if
// needed.
func (e *Engine) Bind(mode string, combo KeyCombo, action string) {
	e.ensureMode(mode)[combo] = KeyBinding{Combo: combo, Action: action}
}

// BindChain installs a chain-prefix binding in mode that switches into a
// freshly-allocated synthetic chain mode, returning that mode's name so
// the caller can populate it with Bind.
func (e *Engine) BindChain(mode string, combo KeyCombo, chainSuffix string) string {
	chainMode := chainModePrefix + chainSuffix
	e.ensureMode(chainMode)
	e.ensureMode(mode)[combo] = KeyBinding{Combo: combo, ChainMode: chainMode}
	return chainMode
}

func (e *Engine) ensureMode(mode string) Mode {
	if e.Modes == nil {
		e.Modes = make(map[string]Mode)
	}
	m, ok := e.Modes[mode]
	if !ok {
		m = make(Mode)
		e.Modes[mode] = m
	}
	return m
}
