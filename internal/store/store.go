// Package store keeps downloaded media in a flat directory, one file per key.
//
// Files are written to a temporary name and renamed into place on commit, so
// Exists never reports a partially written file. Two writers for the same key
// both succeed and the last rename wins.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Store is a content store rooted at a directory of an afero filesystem.
type Store struct {
	fs  afero.Fs
	dir string
}

// New returns a store rooted at dir on fs. A nil fs means the OS filesystem.
func New(fs afero.Fs, dir string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if strings.TrimSpace(dir) == "" {
		dir = "downloads"
	}
	return &Store{fs: fs, dir: dir}
}

// Fs exposes the backing filesystem.
func (s *Store) Fs() afero.Fs { return s.fs }

// Dir is the store root.
func (s *Store) Dir() string { return s.dir }

// Path is where key lives, whether or not it exists yet.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, SanitizeKey(key))
}

// Exists reports whether key is present as a regular file.
func (s *Store) Exists(key string) bool {
	info, err := s.fs.Stat(s.Path(key))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	err := s.fs.Remove(s.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Write stores the content of r under key and returns its path and size.
func (s *Store) Write(key string, r io.Reader) (string, int64, error) {
	p, err := s.Create(key)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(p, r)
	if err != nil {
		p.Abort()
		return "", n, fmt.Errorf("write %s: %w", key, err)
	}
	path, err := p.Commit()
	return path, n, err
}

// Create opens a pending write for key. The caller must Commit or Abort it.
func (s *Store) Create(key string) (*Pending, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	name := SanitizeKey(key)
	f, err := afero.TempFile(s.fs, s.dir, "."+name+".*.part")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", key, err)
	}
	return &Pending{fs: s.fs, file: f, final: filepath.Join(s.dir, name)}, nil
}

// StagingPath is a hidden sibling of key's path for tools that write files
// themselves. It keeps key's extension so format detection by name still works.
func (s *Store) StagingPath(key string) string {
	name := SanitizeKey(key)
	return filepath.Join(s.dir, "."+name+".part"+filepath.Ext(name))
}

// Promote moves a finished staging file into place under key.
func (s *Store) Promote(staging, key string) (string, error) {
	final := s.Path(key)
	if err := s.fs.Rename(staging, final); err != nil {
		_ = s.fs.Remove(staging)
		return "", fmt.Errorf("promote %s: %w", key, err)
	}
	return final, nil
}

// Pending is an in-progress write.
type Pending struct {
	fs    afero.Fs
	file  afero.File
	final string
	done  bool
}

func (p *Pending) Write(b []byte) (int, error) {
	return p.file.Write(b)
}

// Commit closes the temporary file and moves it to its final name.
func (p *Pending) Commit() (string, error) {
	if p.done {
		return "", errors.New("pending write already finished")
	}
	p.done = true
	tmp := p.file.Name()
	if err := p.file.Close(); err != nil {
		_ = p.fs.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := p.fs.Rename(tmp, p.final); err != nil {
		_ = p.fs.Remove(tmp)
		return "", fmt.Errorf("commit %s: %w", p.final, err)
	}
	return p.final, nil
}

// Detach closes the temporary file and hands it to the caller instead of
// moving it into place. The returned path is never visible as a key and the
// caller must remove it.
func (p *Pending) Detach() (string, error) {
	if p.done {
		return "", errors.New("pending write already finished")
	}
	p.done = true
	tmp := p.file.Name()
	if err := p.file.Close(); err != nil {
		_ = p.fs.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}
	return tmp, nil
}

// Abort discards the temporary file.
func (p *Pending) Abort() {
	if p.done {
		return
	}
	p.done = true
	tmp := p.file.Name()
	_ = p.file.Close()
	_ = p.fs.Remove(tmp)
}

// SanitizeKey turns a caller supplied title or id into a single safe file name.
func SanitizeKey(key string) string {
	replacer := strings.NewReplacer(
		"\\", "_",
		"/", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		"\x00", "",
	)
	s := replacer.Replace(key)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimLeft(s, ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return "media"
	}
	return s
}
