package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/futig/parallel-universe/internal/prefs"
	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
)

var _ prefs.Storage = &PreferenceFile{}

// PreferenceFile implements prefs.Storage with one JSON document per client
// under dir. Documents are replaced through a temp file and a rename.
type PreferenceFile struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

func NewPreferenceFile(fsys afero.Fs, dir string) (*PreferenceFile, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preference dir: %w", err)
	}

	return &PreferenceFile{
		fs:  fsys,
		dir: dir,
	}, nil
}

func (r *PreferenceFile) Get(_ context.Context, clientID string, key prefs.Key) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read(clientID)
	if err != nil {
		return "", err
	}

	value, ok := doc[key]
	if !ok {
		return "", prefs.ErrNotFound
	}
	return value, nil
}

func (r *PreferenceFile) Set(_ context.Context, clientID string, key prefs.Key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read(clientID)
	if err != nil {
		return err
	}

	doc[key] = value
	return r.write(clientID, doc)
}

func (r *PreferenceFile) Delete(_ context.Context, clientID string, key prefs.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read(clientID)
	if err != nil {
		return err
	}

	if _, ok := doc[key]; !ok {
		return nil
	}

	delete(doc, key)
	if len(doc) == 0 {
		if err := r.fs.Remove(r.path(clientID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove preference file: %w", err)
		}
		return nil
	}

	return r.write(clientID, doc)
}

func (r *PreferenceFile) read(clientID string) (map[prefs.Key]string, error) {
	data, err := afero.ReadFile(r.fs, r.path(clientID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[prefs.Key]string{}, nil
		}
		return nil, fmt.Errorf("read preference file: %w", err)
	}

	doc := map[prefs.Key]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode preference file: %w", err)
	}

	return doc, nil
}

func (r *PreferenceFile) write(clientID string, doc map[prefs.Key]string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode preference file: %w", err)
	}

	target := r.path(clientID)
	tmp := target + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preference file: %w", err)
	}

	if err := r.fs.Rename(tmp, target); err != nil {
		_ = r.fs.Remove(tmp)
		return fmt.Errorf("replace preference file: %w", err)
	}

	return nil
}

// path assumes clientID was validated as a UUID by the caller.
func (r *PreferenceFile) path(clientID string) string {
	return filepath.Join(r.dir, clientID+".json")
}
