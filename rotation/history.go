package rotation

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// HistoryStore persists the wallpapers shown in earlier runs.
type HistoryStore interface {
	// Load returns the history in the order it was written. On error the
	// returned history is empty and the error wraps ErrLogRead.
	Load() ([]ImagePath, error)
	// Append adds entries to the end of the history.
	Append(entries []ImagePath) error
	// Clear empties the history.
	Clear() error
}

// LogStore keeps history in a plain text file, one path per line.
type LogStore struct {
	path string
}

func NewLogStore(path string) *LogStore {
	return &LogStore{path: path}
}

func (s *LogStore) Path() string {
	return s.path
}

func (s *LogStore) Load() ([]ImagePath, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return []ImagePath{}, fmt.Errorf("%w [%s]: %w", ErrLogRead, s.path, err)
	}
	defer f.Close()

	history := []ImagePath{}
	scanner := bufio.NewScanner(f)
	// Paths can be long on some systems, don't fail on them
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		history = append(history, filepath.Clean(line))
	}

	if err = scanner.Err(); err != nil {
		return []ImagePath{}, fmt.Errorf("%w [%s]: %w", ErrLogRead, s.path, err)
	}
	return history, nil
}

func (s *LogStore) Append(entries []ImagePath) error {
	f, err := s.open(os.O_WRONLY | os.O_CREATE | os.O_APPEND)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err = w.WriteString(e + "\n"); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w [%s]: %w", ErrLogWrite, s.path, err)
	}
	return nil
}

func (s *LogStore) Clear() error {
	f, err := s.open(os.O_WRONLY | os.O_CREATE | os.O_TRUNC)
	if err != nil {
		return err
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("%w [%s]: %w", ErrLogWrite, s.path, err)
	}
	return nil
}

func (s *LogStore) open(flag int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("%w [%s]: %w", ErrLogWrite, s.path, err)
	}

	f, err := os.OpenFile(s.path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w [%s]: %w", ErrLogWrite, s.path, err)
	}
	return f, nil
}

// MemoryStore keeps history in memory only. Used for dry runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries []ImagePath
}

func NewMemoryStore(entries ...ImagePath) *MemoryStore {
	return &MemoryStore{entries: append([]ImagePath{}, entries...)}
}

// CopyStore snapshots the history of another store into memory.
// A failure to load from src is returned alongside the empty store.
func CopyStore(src HistoryStore) (*MemoryStore, error) {
	entries, err := src.Load()
	return NewMemoryStore(entries...), err
}

func (s *MemoryStore) Load() ([]ImagePath, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ImagePath{}, s.entries...), nil
}

func (s *MemoryStore) Append(entries []ImagePath) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
