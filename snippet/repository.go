package snippet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Repository lists and reads snippets by file name.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: ReadByName returns ErrNotFound for missing or invalid names.
type Repository interface {
	// ListNames returns the snippet file names in ascending order.
	ListNames(ctx context.Context) ([]string, error)

	// ReadByName returns the full text of the named snippet.
	ReadByName(ctx context.Context, name string) (string, error)
}

// Info describes a stored snippet file.
type Info struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FileRepository keeps snippets as files directly under a directory.
// Subdirectories, dotfiles and names matching an ignore pattern are not
// listed.
type FileRepository struct {
	dir    string
	ignore []string
}

// NewFileRepository creates a repository over dir. Ignore patterns use
// doublestar syntax and are matched against file names.
func NewFileRepository(dir string, ignore ...string) (*FileRepository, error) {
	for _, p := range ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("snippet: invalid ignore pattern %q", p)
		}
	}
	return &FileRepository{dir: dir, ignore: ignore}, nil
}

// Dir returns the snippet directory.
func (r *FileRepository) Dir() string {
	return r.dir
}

// ListNames returns the names of the snippet files.
func (r *FileRepository) ListNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("snippet: list %s: %w", r.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") || r.ignored(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// ReadByName returns the contents of the named file.
func (r *FileRepository) ReadByName(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := r.path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("snippet: read %s: %w", name, err)
	}
	return string(data), nil
}

// Stat returns size and modification time of the named file.
func (r *FileRepository) Stat(ctx context.Context, name string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	path, err := r.path(name)
	if err != nil {
		return Info{}, err
	}
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || err == nil && !fi.Mode().IsRegular() {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Info{}, fmt.Errorf("snippet: stat %s: %w", name, err)
	}
	return Info{Name: name, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// Save writes content under the file name derived from title (see
// UploadFilename), replacing any existing snippet of that name.
func (r *FileRepository) Save(ctx context.Context, title, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := UploadFilename(title)
	if name == "" {
		return "", ErrEmptyTitle
	}

	tmp, err := os.CreateTemp(r.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("snippet: save %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("snippet: save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("snippet: save %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("snippet: save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.dir, name)); err != nil {
		return "", fmt.Errorf("snippet: save %s: %w", name, err)
	}
	return name, nil
}

func (r *FileRepository) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return filepath.Join(r.dir, name), nil
}

func (r *FileRepository) ignored(name string) bool {
	for _, p := range r.ignore {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

var _ Repository = (*FileRepository)(nil)
