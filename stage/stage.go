// Package stage keeps the originals of rewritten files aside for the
// duration of a batch.
package stage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// A Stage mirrors the files it is given under Dir, keyed by their path
// relative to Root. It is safe for concurrent use.
type Stage struct {
	Root string
	Dir  string

	// Keep leaves the staged originals on disk when the stage is closed.
	Keep bool

	mu    sync.Mutex
	moved map[string]string
}

// Open prepares a staging area for files under root. Whatever a previous
// batch left in dir is removed.
func Open(root, dir string, keep bool) (*Stage, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if within(absRoot, absDir) {
		return nil, fmt.Errorf("staging directory %q can't contain %q", dir, root)
	}

	if err := clean(absDir); err != nil {
		return nil, fmt.Errorf("clean staging directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, err
	}

	return &Stage{
		Root:  absRoot,
		Dir:   absDir,
		Keep:  keep,
		moved: make(map[string]string),
	}, nil
}

// within returns true if path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// clean empties dir, which may not exist.
func clean(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Path returns where path is staged.
func (s *Stage) Path(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if !within(abs, s.Root) {
		return "", fmt.Errorf("%q is outside of %q", path, s.Root)
	}
	rel, err := filepath.Rel(s.Root, abs)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, rel), nil
}

// Move moves path into the staging area and returns its new location.
func (s *Stage) Move(path string) (string, error) {
	staged, err := s.Path(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(staged), 0755); err != nil {
		return "", err
	}
	if err := move(path, staged); err != nil {
		return "", fmt.Errorf("stage %q: %w", path, err)
	}

	s.mu.Lock()
	s.moved[path] = staged
	s.mu.Unlock()
	return staged, nil
}

// Restore moves a staged file back to where it came from.
func (s *Stage) Restore(path string) error {
	s.mu.Lock()
	staged, ok := s.moved[path]
	delete(s.moved, path)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%q was not staged", path)
	}
	if err := move(staged, path); err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}
	return nil
}

// Len returns the number of files currently staged.
func (s *Stage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.moved)
}

// Close tears the staging area down, unless it is to be kept.
func (s *Stage) Close() error {
	if s.Keep {
		return nil
	}
	return os.RemoveAll(s.Dir)
}

// move renames src to dst, copying when they're on different devices.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}
	if cerr := copyFile(src, dst); cerr != nil {
		return errors.Join(err, cerr)
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
