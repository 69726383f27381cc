package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps one JSON document per session in a directory. It is meant
// for CLI workflows where sessions must survive process restarts.
type FileStore struct {
	mu      sync.Mutex
	baseDir string
	ttl     time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// NewFileStore creates a file-based session store rooted at baseDir.
// If baseDir is empty it defaults to ~/.config/fpdviz/sessions.
func NewFileStore(baseDir string, ttl time.Duration) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "fpdviz", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &FileStore{baseDir: baseDir, ttl: ttl, now: time.Now}, nil
}

func (st *FileStore) sessionPath(id string) string {
	return filepath.Join(st.baseDir, id+".json")
}

// Get implements [Store]. Reading a session renews its TTL on disk.
func (st *FileStore) Get(_ context.Context, id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	path := st.sessionPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}

	now := st.now()
	if s.Expired(now) {
		os.Remove(path)
		return nil, ErrExpired
	}

	s.Touch(now, st.ttl)
	if err := st.write(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Set implements [Store].
func (st *FileStore) Set(_ context.Context, s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.write(s)
}

// write marshals the session and replaces its file atomically so a crashed
// process never leaves a truncated document behind.
func (st *FileStore) write(s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	path := st.sessionPath(s.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (st *FileStore) Delete(_ context.Context, id string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	err := os.Remove(st.sessionPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove session file: %w", err)
	}
	return true, nil
}

// Cleanup implements [Store]. Unreadable files are skipped, not failed on.
func (st *FileStore) Cleanup(_ context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	entries, err := os.ReadDir(st.baseDir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}

	now := st.now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(st.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		if s.Expired(now) {
			os.Remove(path)
		}
	}
	return nil
}

// Close implements [Store].
func (st *FileStore) Close() error { return nil }
