package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/drivetrain/pkg/cache"
	"github.com/matzehuels/drivetrain/pkg/errors"
)

const sessionExt = ".json"

// FileStore keeps one JSON file per session in a directory. Writes go
// through a temp file and a rename, so a concurrent reader sees either the
// old session or the new one.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens (and creates) the session directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "session directory not set")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create session dir")
	}
	return &FileStore{dir: dir}, nil
}

// IDForPath derives a stable session id from a definition file path, so
// that the CLI finds the same session for the same file on every run.
func IDForPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file-" + cache.Hash([]byte(path))[:16]
}

// file returns the session's path. Ids are validated first: they become
// file names.
func (s *FileStore) file(id string) (string, error) {
	if err := errors.ValidateID(id); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "session id")
	}
	return filepath.Join(s.dir, id+sessionExt), nil
}

func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s", filepath.Base(path))
	}
	return &sess, nil
}

// Get returns nil, nil for a missing or expired session. Expired files are
// removed on the way.
func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	path, err := s.file(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	sess, err := readSession(path)
	s.mu.RUnlock()
	switch {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, err
	case sess.IsExpired():
		s.mu.Lock()
		os.Remove(path)
		s.mu.Unlock()
		return nil, nil
	}
	return sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	path, err := s.file(sess.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+sess.ID+"-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write session")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write session")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write session")
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write session")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write session")
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.file(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove session")
	}
	return nil
}

// Cleanup removes expired and unreadable session files and reports how many
// it removed.
func (s *FileStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "read session dir")
	}
	now := time.Now()
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, sessionExt) || strings.HasPrefix(name, ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		path := filepath.Join(s.dir, name)
		sess, err := readSession(path)
		if err == nil && !now.After(sess.ExpiresAt) {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Path returns the session directory.
func (s *FileStore) Path() string { return s.dir }

var _ Store = (*FileStore)(nil)
