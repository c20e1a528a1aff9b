package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory = "history.lisp"

	// maxHistory bounds the entries kept in memory and on disk.
	maxHistory = 1000
)

// historyPrefix marks the mode of each line of the history file.
var historyPrefix = map[inputMode]string{
	modeEval: "E:",
	modeCtrl: "C:",
}

// HistoryEntry is one submitted line and the mode it was submitted in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string { return historyPrefix[e.Mode] + e.Line + "\n" }

func decodeHistory(line string) (HistoryEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return HistoryEntry{}, false
	}

	for mode, prefix := range historyPrefix {
		if s, ok := strings.CutPrefix(line, prefix); ok {
			return HistoryEntry{Line: s, Mode: mode}, true
		}
	}

	return HistoryEntry{Line: line, Mode: modeEval}, true
}

// History is the line history of the REPL, persisted to a file. A History
// with an empty path is kept in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns an empty history stored at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those of the history file. A missing file
// is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return ErrLoadHistory.With(slog.String("path", h.path)).Wrap(err)
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := decodeHistory(scanner.Text()); ok {
			h.entries = append(h.entries, e)
		}
	}

	if len(h.entries) > maxHistory {
		h.entries = slices.Clone(h.entries[len(h.entries)-maxHistory:])
	}

	if err := scanner.Err(); err != nil {
		return ErrLoadHistory.With(slog.String("path", h.path)).Wrap(err)
	}

	return nil
}

// Add appends line in mode, moving an earlier identical entry to the end.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if len(h.entries) > maxHistory {
		h.entries = slices.Delete(h.entries, 0, len(h.entries)-maxHistory)
		i = 0
	}

	if i >= 0 {
		return h.rewrite()
	}

	return h.append(entry)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds.With(slog.Int("index", i))
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of every entry, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// append writes entry at the end of the file. h.mu must be held.
func (h *History) append(entry HistoryEntry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return ErrWriteHistory.With(slog.String("path", h.path)).Wrap(err)
	}
	defer file.Close()

	if _, err := file.WriteString(entry.encode()); err != nil {
		return ErrWriteHistory.With(slog.String("path", h.path)).Wrap(err)
	}

	return nil
}

// rewrite replaces the file with the current entries. h.mu must be held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e.encode())
	}

	if err := os.WriteFile(h.path, []byte(sb.String()), 0o600); err != nil {
		return ErrWriteHistory.With(slog.String("path", h.path)).Wrap(err)
	}

	return nil
}
