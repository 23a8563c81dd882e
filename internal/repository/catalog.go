// Package repository provides the file-backed persistence for the course
// catalog and read-only access to per-course attachments.
package repository

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
	"github.com/atinyakov/CourseKeeper/internal/models"
)

// CatalogRepository holds the whole catalog in memory and writes it back to
// a single CSV file on Persist.
type CatalogRepository struct {
	// path is the backing CSV file.
	path string

	mu      sync.RWMutex
	courses []models.Course
	index   map[string]int

	// writeMu orders concurrent Persist calls so a newer snapshot is never
	// overwritten by an older one.
	writeMu sync.Mutex
}

// NewCatalogRepository returns a repository backed by the CSV file at path.
// Call Load before using it.
func NewCatalogRepository(path string) *CatalogRepository {
	return &CatalogRepository{path: path, index: map[string]int{}}
}

// Path returns the backing file path.
func (r *CatalogRepository) Path() string {
	return r.path
}

// Load reads the backing file into memory. When the file does not exist it
// is first created from SeedCourses. Any read or parse failure is reported
// as apperrors.ErrStoreUnavailable.
func (r *CatalogRepository) Load() error {
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		if err := writeCatalog(r.path, SeedCourses()); err != nil {
			return fmt.Errorf("%w: seed %s: %w", apperrors.ErrStoreUnavailable, r.path, err)
		}
	} else if err != nil {
		return fmt.Errorf("%w: stat %s: %w", apperrors.ErrStoreUnavailable, r.path, err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", apperrors.ErrStoreUnavailable, r.path, err)
	}
	defer f.Close()

	courses, err := decodeCatalog(f)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", apperrors.ErrStoreUnavailable, r.path, err)
	}

	index := make(map[string]int, len(courses))
	for i, c := range courses {
		index[c.Code] = i
	}

	r.mu.Lock()
	r.courses = courses
	r.index = index
	r.mu.Unlock()
	return nil
}

// FindByCode returns a copy of the course with the given code.
func (r *CatalogRepository) FindByCode(code string) (models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[code]
	if !ok {
		return models.Course{}, fmt.Errorf("course %q: %w", code, apperrors.ErrNotFound)
	}
	return r.courses[i], nil
}

// List returns a copy of all courses in file order.
func (r *CatalogRepository) List() []models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.courses)
}

// Codes returns the course codes in file order.
func (r *CatalogRepository) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, len(r.courses))
	for i, c := range r.courses {
		codes[i] = c.Code
	}
	return codes
}

// UpdateFields replaces the description and comments of a course in memory.
// Both fields change together; on ErrNotFound nothing changes.
func (r *CatalogRepository) UpdateFields(code string, edit models.CourseEdit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[code]
	if !ok {
		return fmt.Errorf("course %q: %w", code, apperrors.ErrNotFound)
	}
	r.courses[i] = edit.Apply(r.courses[i])
	return nil
}

// Persist writes the whole in-memory table over the backing file. On
// failure the previous file is left intact, the in-memory table keeps any
// applied edits, and the returned error wraps apperrors.ErrPersistFailure.
func (r *CatalogRepository) Persist() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.RLock()
	snapshot := slices.Clone(r.courses)
	r.mu.RUnlock()

	if err := writeCatalog(r.path, snapshot); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrPersistFailure, r.path, err)
	}
	return nil
}
