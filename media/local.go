package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vitrine/models"
)

// Local writes images under a directory served as static files.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal stores files in dir and builds URLs as baseURL + "/" + name.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Upload(ctx context.Context, filename string, r io.Reader) (Stored, error) {
	name := objectName(filename)
	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return Stored{}, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return Stored{}, err
	}
	return Stored{URL: l.baseURL + "/" + name, PublicID: name}, nil
}

func (l *Local) Delete(ctx context.Context, publicID string) error {
	name := filepath.Base(publicID)
	if name != publicID || name == "." || name == ".." {
		return models.ErrNotFound
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return models.ErrNotFound
	}
	return err
}

func (l *Local) List(ctx context.Context) ([]Stored, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	out := []Stored{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, Stored{URL: l.baseURL + "/" + e.Name(), PublicID: e.Name()})
		if len(out) == ListLimit {
			break
		}
	}
	return out, nil
}

func (l *Local) DeleteAll(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, e.Name())); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
