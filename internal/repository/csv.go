package repository

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/atinyakov/CourseKeeper/internal/models"
)

// columns is the canonical header of the catalog file.
var columns = []string{
	"code",
	"title_es",
	"title_en",
	"credits",
	"contact_hours",
	"year",
	"semester",
	"status",
	"description",
	"comments",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeCatalog parses a catalog file. Columns are matched by name, so any
// column order is accepted, but the set must be exactly the canonical one.
func decodeCatalog(r io.Reader) ([]models.Course, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	pos, err := headerPositions(header)
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	seen := make(map[string]struct{})
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)

		c, err := decodeCourse(rec, pos)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := seen[c.Code]; dup {
			return nil, fmt.Errorf("line %d: duplicate code %q", line, c.Code)
		}
		seen[c.Code] = struct{}{}
		courses = append(courses, c)
	}
	return courses, nil
}

func headerPositions(header []string) (map[string]int, error) {
	if len(header) != len(columns) {
		return nil, fmt.Errorf("header has %d columns, want %d", len(header), len(columns))
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if !known[name] {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		if _, dup := pos[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		pos[name] = i
	}
	return pos, nil
}

func decodeCourse(rec []string, pos map[string]int) (models.Course, error) {
	get := func(col string) string { return rec[pos[col]] }

	c := models.Course{
		Code:        get("code"),
		TitleES:     get("title_es"),
		TitleEN:     get("title_en"),
		Status:      get("status"),
		Description: get("description"),
		Comments:    get("comments"),
	}
	if c.Code == "" {
		return c, errors.New("empty code")
	}

	ints := []struct {
		col string
		min int
		dst *int
	}{
		{"credits", 0, &c.Credits},
		{"contact_hours", 0, &c.ContactHours},
		{"year", 1, &c.Year},
		{"semester", 1, &c.Semester},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(get(f.col))
		if err != nil {
			return c, fmt.Errorf("%s: %w", f.col, err)
		}
		if v < f.min {
			return c, fmt.Errorf("%s: %d is below %d", f.col, v, f.min)
		}
		*f.dst = v
	}
	return c, nil
}

func encodeCatalog(w io.Writer, courses []models.Course) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, c := range courses {
		rec := []string{
			c.Code,
			c.TitleES,
			c.TitleEN,
			strconv.Itoa(c.Credits),
			strconv.Itoa(c.ContactHours),
			strconv.Itoa(c.Year),
			strconv.Itoa(c.Semester),
			c.Status,
			c.Description,
			c.Comments,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// rename is swapped in tests to fail the final step of writeCatalog.
var rename = os.Rename

// writeCatalog replaces the file at path with the encoded courses. The data
// goes to a temp file in the same directory first and is renamed over path,
// so a failed write never truncates the existing file.
func writeCatalog(path string, courses []models.Course) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create tmp: %w", err)
	}
	tmpName := tmp.Name()

	if err := encodeCatalog(tmp, courses); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync tmp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod tmp: %w", err)
	}
	if err := rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
