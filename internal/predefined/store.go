package predefined

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrNotFound is returned when removing a name that is not in the list.
var ErrNotFound = errors.New("entry not found")

// Store is a path-bound list with a single in-process writer.
// Every mutation is written through to disk; the last writer wins.
type Store struct {
	path string

	mu   sync.Mutex
	list List
}

// Open loads the list at path into a Store.
func Open(path string) (*Store, error) {
	list, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, list: list}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// List returns a copy of the current entries.
func (s *Store) List() List {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(List, len(s.list))
	copy(out, s.list)
	return out
}

// Set stores url under name and saves the file.
func (s *Store) Set(name, url string) (List, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.list.Set(name, url)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := next.Save(s.path); err != nil {
		return nil, err
	}
	s.list = next
	return next, nil
}

// Remove deletes name and saves the file.
func (s *Store) Remove(name string) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, found := s.list.Remove(normalizeName(name))
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := next.Save(s.path); err != nil {
		return nil, err
	}
	s.list = next
	return next, nil
}

// Reload re-reads the file, replacing the in-memory list.
func (s *Store) Reload() (List, error) {
	list, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	return list, nil
}

// errMidWrite marks a file that is missing or blank while being rewritten.
// Save always writes at least "{}", so neither state is a real edit.
var errMidWrite = errors.New("file is being rewritten")

// reloadChanged is Reload for watch events: a missing or blank file leaves
// the list untouched and returns errMidWrite.
func (s *Store) reloadChanged() (List, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errMidWrite
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errMidWrite
	}
	list, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	return list, nil
}

// Watch reloads the store whenever its file changes on disk and calls fn
// with the new list. Invalid edits are logged and the previous list is kept.
// A file caught blank or missing mid-rewrite is skipped until the next event.
// It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger, fn func(List)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: Save replaces the file by rename, which would
	// drop a watch placed on the file itself.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			list, err := s.reloadChanged()
			if errors.Is(err, errMidWrite) {
				logger.Debug("predefined list mid-write, waiting for next event", "path", s.path)
				continue
			}
			if err != nil {
				logger.Warn("ignoring invalid predefined list", "path", s.path, "error", err)
				continue
			}
			logger.Info("predefined list reloaded", "path", s.path, "entries", len(list))
			if fn != nil {
				fn(list)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("predefined watcher error", "error", err)
		}
	}
}
