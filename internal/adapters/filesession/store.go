// Package filesession persists login sessions as JSON files readable only by the
// current user.
package filesession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

const (
	dirMode  fs.FileMode = 0o700
	fileMode fs.FileMode = 0o600
)

// DefaultDir returns <user config dir>/tripmate/sessions.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, "tripmate", "sessions"), nil
}

// Store keeps one file per session under a directory.
type Store struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

var _ ports.SessionStore = (*Store)(nil)

// New constructs a Store rooted at dir, or at DefaultDir when dir is empty.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the directory sessions are written to.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", errors.New("session ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", apperrors.ValidationField("id", fmt.Sprintf("invalid session ID %q", id))
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes the session atomically.
func (s *Store) Save(_ context.Context, sess domainauth.Session) error {
	path, err := s.path(sess.ID)
	if err != nil {
		return err
	}
	if sess.Expired(s.now()) {
		return errors.New("session is expired")
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+sess.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("store session file: %w", err)
	}
	return nil
}

// Get reads a session. Missing and expired sessions are reported as not found;
// expired files are removed.
func (s *Store) Get(_ context.Context, id string) (domainauth.Session, error) {
	path, err := s.path(id)
	if err != nil {
		return domainauth.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = os.Remove(path)
		return domainauth.Session{}, apperrors.NotFound("session expired")
	}
	return sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}
