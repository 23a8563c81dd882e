package service

import (
	"fmt"
	"sync"

	"github.com/atinyakov/CourseKeeper/internal/models"
)

// CatalogRepository defines the persistence operations required by the
// catalog service.
type CatalogRepository interface {
	// FindByCode returns the course with the given code or apperrors.ErrNotFound.
	FindByCode(code string) (models.Course, error)
	// List returns all courses in catalog order.
	List() []models.Course
	// Codes returns all course codes in catalog order.
	Codes() []string
	// UpdateFields replaces description and comments of a course in memory.
	UpdateFields(code string, edit models.CourseEdit) error
	// Persist writes the full table back to its backing file.
	Persist() error
}

// AttachmentRepository lists the files attached to a course.
type AttachmentRepository interface {
	List(code string) ([]string, error)
	HasFolder(code string) bool
}

// CatalogService is the single write path to the catalog. It is shared by
// every session.
type CatalogService struct {
	repo  CatalogRepository
	files AttachmentRepository

	// commitMu serializes update+persist so concurrent commits never lose
	// an update.
	commitMu sync.Mutex
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo CatalogRepository, files AttachmentRepository) *CatalogService {
	return &CatalogService{repo: repo, files: files}
}

// Course returns the course with the given code.
func (s *CatalogService) Course(code string) (models.Course, error) {
	return s.repo.FindByCode(code)
}

// Courses returns every course in catalog order.
func (s *CatalogService) Courses() []models.Course {
	return s.repo.List()
}

// Codes returns the selectable course codes.
func (s *CatalogService) Codes() []string {
	return s.repo.Codes()
}

// Attachments returns the sorted attachment names of a course.
func (s *CatalogService) Attachments(code string) ([]string, error) {
	return s.files.List(code)
}

// HasAttachmentFolder reports whether the course has an attachments
// directory at all.
func (s *CatalogService) HasAttachmentFolder(code string) bool {
	return s.files.HasFolder(code)
}

// Commit applies edit to the course and persists the whole catalog. Only
// one commit runs at a time. If persisting fails the edit stays applied in
// memory and a later commit (or Persist) will write it.
func (s *CatalogService) Commit(code string, edit models.CourseEdit) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if err := s.repo.UpdateFields(code, edit); err != nil {
		return fmt.Errorf("update %s: %w", code, err)
	}
	return s.repo.Persist()
}
