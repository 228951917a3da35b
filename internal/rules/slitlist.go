package rules

import (
	"os"
	"strings"
)

// SlitList persists the slit's stacking order as one opaque identifier per
// line (spec §6.4), rewritten atomically via the same temp-file-then-rename
// path Store.Save uses.
type SlitList struct {
	Order []string
	path  string
}

// NewSlitList returns an empty list not yet bound to a file.
func NewSlitList() *SlitList {
	return &SlitList{}
}

// Load reads path into Order, one identifier per (non-empty) line. A
// missing file yields an empty list, not an error.
func (l *SlitList) Load(path string) error {
	l.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.Order = nil
			return nil
		}
		return err
	}
	l.Order = nil
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			l.Order = append(l.Order, line)
		}
	}
	return nil
}

// Save rewrites the bound file atomically.
func (l *SlitList) Save() error {
	if l.path == "" {
		return nil
	}
	return atomicWrite(l.path, []byte(strings.Join(l.Order, "\n")+"\n"))
}

// indexOf returns the position of id in Order, or -1.
func (l *SlitList) indexOf(id string) int {
	for i, v := range l.Order {
		if v == id {
			return i
		}
	}
	return -1
}

// MoveToEnd moves id to the end of the stacking order, inserting it if
// absent, and saves.
func (l *SlitList) MoveToEnd(id string) error {
	if idx := l.indexOf(id); idx >= 0 {
		l.Order = append(l.Order[:idx], l.Order[idx+1:]...)
	}
	l.Order = append(l.Order, id)
	return l.Save()
}

// Remove drops id from the order and saves.
func (l *SlitList) Remove(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return nil
	}
	l.Order = append(l.Order[:idx], l.Order[idx+1:]...)
	return l.Save()
}
