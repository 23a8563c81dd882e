package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
)

// AttachmentRepository exposes the files stored under baseDir/<code>/.
// Nothing is cached; every call reads the filesystem.
type AttachmentRepository struct {
	baseDir string
}

// NewAttachmentRepository returns a repository rooted at baseDir.
func NewAttachmentRepository(baseDir string) *AttachmentRepository {
	return &AttachmentRepository{baseDir: baseDir}
}

// List returns the names of the files in the directory of code, sorted.
// A missing or empty directory yields an empty slice and no error.
func (r *AttachmentRepository) List(code string) ([]string, error) {
	dir, ok := r.courseDir(code)
	if !ok {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read attachments of %q: %w", code, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// HasFolder reports whether code has an attachments directory, empty or not.
func (r *AttachmentRepository) HasFolder(code string) bool {
	dir, ok := r.courseDir(code)
	if !ok {
		return false
	}
	fi, err := os.Stat(dir)
	return err == nil && fi.IsDir()
}

// Open opens a single attachment for reading. The caller closes the file.
func (r *AttachmentRepository) Open(code, name string) (*os.File, fs.FileInfo, error) {
	dir, ok := r.courseDir(code)
	if !ok || !isPlainName(name) {
		return nil, nil, fmt.Errorf("attachment %q/%q: %w", code, name, apperrors.ErrNotFound)
	}
	path := filepath.Join(dir, name)
	if !isSubpath(dir, path) {
		return nil, nil, fmt.Errorf("attachment %q/%q: %w", code, name, apperrors.ErrNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("attachment %q/%q: %w", code, name, apperrors.ErrNotFound)
		}
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("attachment %q/%q: %w", code, name, apperrors.ErrNotFound)
	}
	return f, fi, nil
}

func (r *AttachmentRepository) courseDir(code string) (string, bool) {
	if !isPlainName(code) {
		return "", false
	}
	dir := filepath.Join(r.baseDir, code)
	return dir, isSubpath(r.baseDir, dir)
}

// isPlainName reports whether s is a single path element.
func isPlainName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && filepath.Base(s) == s
}

// isSubpath ensures child is within root, preventing path traversal.
func isSubpath(root, child string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absChild, err := filepath.Abs(child)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absChild)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
