// Package sessionfile persists the gateway token pair between client runs and
// reports changes made to it by other processes.
package sessionfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"hiprompt/internal/gateway"
)

const debounceDelay = 100 * time.Millisecond

// Store reads and writes one session file.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// DefaultPath is session.json under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "hiprompt", "session.json")
}

// New creates a store for path, or DefaultPath when path is empty.
func New(path string, logger *zap.Logger) *Store {
	if path == "" {
		path = DefaultPath()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored session, or nil when no file exists.
func (s *Store) Load() (*gateway.AuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*gateway.AuthSession, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var session gateway.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if session.AccessToken == "" {
		return nil, nil
	}
	return &session, nil
}

// Save writes the session atomically with owner-only permissions.
func (s *Store) Save(session *gateway.AuthSession) error {
	if session == nil {
		return s.Clear()
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Watch calls fn with the reloaded session whenever the file changes on disk.
// fn receives nil when the file is removed. The returned stop function closes
// the watcher and waits for its goroutine to exit.
func (s *Store) Watch(fn func(*gateway.AuthSession)) (stop func(), err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// The directory is watched because Save replaces the file by rename.
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	stopCh := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer w.Close()
		s.watchLoop(w, stopCh, fn)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
			<-done
		})
	}, nil
}

func (s *Store) watchLoop(w *fsnotify.Watcher, stopCh <-chan struct{}, fn func(*gateway.AuthSession)) {
	target := filepath.Clean(s.path)

	// Debounce so a burst of create/write/rename events reloads once.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug("Session file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			timer.Reset(debounceDelay)

		case <-timer.C:
			session, err := s.Load()
			if err != nil {
				s.logger.Warn("Failed to reload session file", zap.Error(err))
				continue
			}
			fn(session)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Error("File watcher error", zap.Error(err))

		case <-stopCh:
			return
		}
	}
}
