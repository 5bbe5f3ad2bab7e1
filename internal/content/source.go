// Package content loads exercise sets and grammar topics from a directory,
// the bundled library, an HTTP server or the local catalog.
package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
)

// Source returns the raw bytes stored at a slash-separated path such as
// "model/present-simple.json".
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Lister is implemented by sources that can enumerate a directory. List
// returns the file names in dir, sorted.
type Lister interface {
	List(ctx context.Context, dir string) ([]string, error)
}

//go:embed bundled
var bundled embed.FS

// Bundled returns the content shipped with the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		panic(err)
	}
	return sub
}

// FSSource reads content from a file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource wraps fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource reads content below dir.
func NewDirSource(dir string) (*FSSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s: not a directory", dir)
	}
	return NewFSSource(os.DirFS(dir)), nil
}

func (s *FSSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return data, err
}

func (s *FSSource) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(s.fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
