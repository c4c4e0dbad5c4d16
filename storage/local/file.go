// Package localstore persists the session and the remembered username in
// the user's local profile, surviving process restarts.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core/session"
)

const (
	sessionFile  = "session.json"
	rememberFile = "remembered_user"
)

// FileStore keeps each value in its own file under dir, written atomically.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

var _ session.Storage = (*FileStore)(nil) // interface compliance check

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) ReadSession() (session.Session, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path(sessionFile))
	if os.IsNotExist(err) {
		return session.Session{}, false, nil
	}
	if err != nil {
		return session.Session{}, false, errors.Wrap(err, "reading session")
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, false, errors.Wrap(err, "unmarshalling session")
	}
	return sess, true, nil
}

func (fs *FileStore) WriteSession(sess session.Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}
	return fs.writeAtomic(sessionFile, data)
}

func (fs *FileStore) ClearSession() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.remove(sessionFile)
}

func (fs *FileStore) ReadRemembered() (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path(rememberFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "reading remembered username")
	}
	return string(data), nil
}

func (fs *FileStore) WriteRemembered(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.writeAtomic(rememberFile, []byte(name))
}

func (fs *FileStore) ClearRemembered() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.remove(rememberFile)
}

func (fs *FileStore) path(name string) string {
	return filepath.Join(fs.dir, name)
}

// writeAtomic writes to a temp file and renames it into place so a crash
// mid-write never leaves a partial value behind.
func (fs *FileStore) writeAtomic(name string, data []byte) error {
	path := fs.path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "replacing %s", name)
	}
	return nil
}

func (fs *FileStore) remove(name string) error {
	if err := os.Remove(fs.path(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", name)
	}
	return nil
}
