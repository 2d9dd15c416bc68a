// Package files is the filesystem side of the /files/ routes: locating,
// reading and writing files under a single root directory.
//
// The root is an opaque string. Names are joined to it as given, so a name
// containing ".." reaches outside the root.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var ErrNotFound = fmt.Errorf("file not found: %w", fs.ErrNotExist)

// errStop ends a walk early once a match is found.
var errStop = errors.New("stop walk")

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Store reads and writes files below Root on an afero filesystem.
type Store struct {
	fs   afero.Fs
	root string
}

func New(fsys afero.Fs, root string) *Store {
	return &Store{fs: fsys, root: root}
}

// NewOS returns a Store backed by the operating system filesystem.
func NewOS(root string) *Store {
	return New(afero.NewOsFs(), root)
}

func (s *Store) Root() string {
	return s.root
}

// FindFile locates a regular file called name. A file directly at root/name
// wins; otherwise the tree is walked in lexical order and the first regular
// file whose root-relative path ends in name is returned.
func (s *Store) FindFile(name string) (string, error) {
	if name == "" {
		return "", ErrNotFound
	}

	direct := filepath.Join(s.root, name)
	if s.isRegular(direct) {
		return direct, nil
	}

	suffix := string(filepath.Separator) + name
	var found string
	err := afero.Walk(s.fs, s.walkRoot(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == s.walkRoot() {
				return err
			}
			// unreadable subtree
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.walkRoot(), path)
		if err != nil {
			return nil
		}
		if rel == name || strings.HasSuffix(rel, suffix) {
			found = path
			return errStop
		}
		return nil
	})

	if found != "" {
		return found, nil
	}
	if err != nil && !errors.Is(err, errStop) && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("search %q: %w", s.root, err)
	}
	return "", ErrNotFound
}

func (s *Store) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}

// WriteFile creates or truncates root/name.
func (s *Store) WriteFile(name string, data []byte) error {
	path := filepath.Join(s.root, name)
	if err := afero.WriteFile(s.fs, path, data, filePerm); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// EnsureDirectory creates the root directory if it does not exist.
func (s *Store) EnsureDirectory() error {
	if s.root == "" {
		return nil
	}
	if err := s.fs.MkdirAll(s.root, dirPerm); err != nil {
		return fmt.Errorf("create %q: %w", s.root, err)
	}
	return nil
}

func (s *Store) isRegular(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *Store) walkRoot() string {
	if s.root == "" {
		return "."
	}
	return s.root
}
