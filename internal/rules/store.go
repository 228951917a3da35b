package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/sys/unix"
)

// Store owns the live apps-rules list plus its persistence state (spec
// §4.6 Persistence, GLOSSARY "Rewrite-safe"). Rule order is significant
// (match is a linear scan), so Rules is a plain slice, not an arena.
type Store struct {
	Rules       []Rule
	RewriteSafe bool
	Generation  uint64

	path string
}

// NewStore returns an empty, rewrite-safe Store not yet bound to a file.
func NewStore() *Store {
	return &Store{RewriteSafe: true}
}

// Load reads and parses path, setting RewriteSafe from the parse result. A
// missing file is not an error (spec §7: "a missing apps file is not
// fatal") and leaves an empty, rewrite-safe Store.
func (s *Store) Load(path string) error {
	s.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.Rules = nil
			s.RewriteSafe = true
			return nil
		}
		return fmt.Errorf("rules: load %s: %w", path, err)
	}
	result := Parse(string(data))
	s.Rules = result.Rules
	s.RewriteSafe = result.RewriteSafe
	return nil
}

// Save atomically rewrites the bound file: write to "<path>.tmp.XXXXXX",
// fchmod to the existing file's mode (0644 if none exists), fsync, then
// rename over path (spec §4.6 Persistence). It is a no-op returning nil if
// the store isn't rewrite-safe, per GLOSSARY "Rewrite-safe": an
// incompletely-understood file must never be silently overwritten.
func (s *Store) Save() error {
	if !s.RewriteSafe || s.path == "" {
		return nil
	}
	return atomicWrite(s.path, []byte(Write(s.Rules)))
}

// atomicWrite writes data to path via a temp file in the same directory,
// fchmod'd to the existing file's mode (or 0644), fsync'd, then renamed
// over path; the temp file is unlinked on any failure so no partial file
// is ever exposed at the visible path (spec §4.6/§7). The fchmod/fsync/
// rename calls go through golang.org/x/sys/unix rather than *os.File's
// wrappers, mirroring the teacher's own direct syscall use in
// wayland.go's (syscall.Mmap/syscall.MAP_SHARED) shm-buffer setup.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	mode := os.FileMode(0644)
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("rules: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("rules: write temp file: %w", err)
	}
	if err = unix.Fchmod(int(tmp.Fd()), uint32(mode)); err != nil {
		return fmt.Errorf("rules: fchmod temp file: %w", err)
	}
	if err = unix.Fsync(int(tmp.Fd())); err != nil {
		return fmt.Errorf("rules: fsync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("rules: close temp file: %w", err)
	}
	if err = unix.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rules: rename temp file: %w", err)
	}
	return nil
}

// RecordMatch bumps the matched rule's per-session match count, enforcing
// match_limit (spec §4.6 Match).
func (s *Store) RecordMatch(id ID) {
	if int(id) < 0 || int(id) >= len(s.Rules) {
		return
	}
	s.Rules[int(id)].matchCount++
}

// escapePattern regex-escapes a literal value for use as an exact-match
// predicate pattern, the form spec §8.3 S5 shows
// ("app_id=<regex-escaped-app-id>").
func escapePattern(literal string) string {
	return regexp.QuoteMeta(literal)
}

// FindForView returns the single rule remember-toggle/forget operate on
// for a view with the given (appID, instance, role, title): the first
// rule matching that exact tuple via Match, or -1 if none exists yet.
func (s *Store) FindForView(t Target) (ID, bool) {
	return Match(s.Rules, t)
}

// RememberSticky toggles the Sticky attribute for the rule matching t,
// creating an exact-match rule for it if none exists yet (spec §4.6
// "Remember-toggle"). current is the view's live sticky value, stored
// when the attribute transitions unset→set. Returns whether the store
// changed and should be saved.
func (s *Store) RememberSticky(t Target, current bool) bool {
	id, ok := s.FindForView(t)
	if !ok {
		id = s.newExactRule(t)
	}
	r := &s.Rules[id]
	if r.SetSticky {
		r.SetSticky = false
	} else {
		r.SetSticky, r.Sticky = true, current
	}
	s.afterMutate(id)
	return true
}

// Forget clears every attribute on the rule matching t — mirroring spec
// §4.6's forget operation. The rule itself, with its predicates, stays in
// the list as an empty rule.
func (s *Store) Forget(t Target) bool {
	id, ok := s.FindForView(t)
	if !ok {
		return false
	}
	s.Rules[id].Attrs = Attrs{}
	s.Generation++
	if s.RewriteSafe {
		s.Save()
	}
	return true
}

// newExactRule appends a new rule matching t's app_id exactly (the
// minimum predicate needed to re-identify this view across sessions) and
// returns its ID.
func (s *Store) newExactRule(t Target) ID {
	r := Rule{AppID: Predicate{Set: true, Pattern: escapePattern(t.AppID)}}
	r.compile()
	s.Rules = append(s.Rules, r)
	return ID(len(s.Rules) - 1)
}

// afterMutate bumps the generation counter and saves if the store is
// rewrite-safe (spec §4.6: "changes bump a generation counter and trigger
// a save if the file is rewrite-safe").
func (s *Store) afterMutate(id ID) {
	s.Generation++
	if s.RewriteSafe {
		s.Save()
	}
}
