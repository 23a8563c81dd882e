package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
	"github.com/atinyakov/CourseKeeper/internal/models"
)

const sampleCSV = `code,title_es,title_en,credits,contact_hours,year,semester,status,description,comments
FARM_7101,Comunicación en Salud,Health Communications,3,54,1,1,Activo,"Estrategias, campañas y medios","Línea uno
línea dos"
FARM_7102,Terapéutica Avanzada,Advanced Therapeutics,4,60,1,2,Inactivo,"Dice ""hola""",
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadedRepo(t *testing.T, content string) *CatalogRepository {
	t.Helper()
	path := writeFile(t, t.TempDir(), "cursos.csv", content)
	repo := NewCatalogRepository(path)
	require.NoError(t, repo.Load())
	return repo
}

func TestLoad_SeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cursos.csv")
	repo := NewCatalogRepository(path)

	require.NoError(t, repo.Load())

	_, err := os.Stat(path)
	require.NoError(t, err, "seed file should be written")

	c, err := repo.FindByCode("FARM_7101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, c.Status)
	assert.Equal(t, []string{"FARM_7101", "FARM_7102"}, repo.Codes())
}

func TestLoad_ParsesFields(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)

	c, err := repo.FindByCode("FARM_7101")
	require.NoError(t, err)
	assert.Equal(t, models.Course{
		Code:         "FARM_7101",
		TitleES:      "Comunicación en Salud",
		TitleEN:      "Health Communications",
		Credits:      3,
		ContactHours: 54,
		Year:         1,
		Semester:     1,
		Status:       "Activo",
		Description:  "Estrategias, campañas y medios",
		Comments:     "Línea uno\nlínea dos",
	}, c)

	c, err = repo.FindByCode("FARM_7102")
	require.NoError(t, err)
	assert.Equal(t, `Dice "hola"`, c.Description)
	assert.Empty(t, c.Comments)
}

func TestLoad_ColumnOrderAndBOM(t *testing.T) {
	content := "\xEF\xBB\xBFstatus,code,title_es,title_en,credits,contact_hours,year,semester,description,comments\n" +
		"Activo,X1,a,b,1,2,3,4,d,c\n"
	repo := loadedRepo(t, content)

	c, err := repo.FindByCode("X1")
	require.NoError(t, err)
	assert.Equal(t, "Activo", c.Status)
	assert.Equal(t, 3, c.Year)
	assert.Equal(t, 4, c.Semester)
}

func TestLoad_Malformed(t *testing.T) {
	header := strings.Join(columns, ",") + "\n"
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"unknown column", "code,title,title_en,credits,contact_hours,year,semester,status,description,comments\n"},
		{"missing column", "code,title_es\nA,b\n"},
		{"duplicate column", "code,code,title_en,credits,contact_hours,year,semester,status,description,comments\n"},
		{"wrong field count", header + "A,b,c,1,2,1,1,Activo,d\n"},
		{"non integer", header + "A,b,c,three,2,1,1,Activo,d,e\n"},
		{"negative credits", header + "A,b,c,-1,2,1,1,Activo,d,e\n"},
		{"zero year", header + "A,b,c,1,2,0,1,Activo,d,e\n"},
		{"empty code", header + ",b,c,1,2,1,1,Activo,d,e\n"},
		{"duplicate code", header + "A,b,c,1,2,1,1,Activo,d,e\nA,b,c,1,2,1,1,Activo,d,e\n"},
		{"bad quoting", header + "A,\"b,c,1,2,1,1,Activo,d,e\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "cursos.csv", tt.content)
			repo := NewCatalogRepository(path)

			err := repo.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
		})
	}
}

func TestLoad_HeaderOnly(t *testing.T) {
	repo := loadedRepo(t, strings.Join(columns, ",")+"\n")
	assert.Empty(t, repo.Codes())
}

func TestPersist_RoundTrip(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)

	require.NoError(t, repo.Persist())

	got, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(got))
}

func TestPersist_RoundTripSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursos.csv")
	repo := NewCatalogRepository(path)
	require.NoError(t, repo.Load())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	reloaded := NewCatalogRepository(path)
	require.NoError(t, reloaded.Load())
	require.NoError(t, reloaded.Persist())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, repo.List(), reloaded.List())
}

func TestUpdateFields(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)

	for _, code := range repo.Codes() {
		before, err := repo.FindByCode(code)
		require.NoError(t, err)

		edit := models.CourseEdit{Description: "nueva " + code, Comments: "comentario " + code}
		require.NoError(t, repo.UpdateFields(code, edit))

		after, err := repo.FindByCode(code)
		require.NoError(t, err)
		assert.Equal(t, edit.Description, after.Description)
		assert.Equal(t, edit.Comments, after.Comments)

		before.Description, before.Comments = after.Description, after.Comments
		assert.Equal(t, before, after, "only description and comments may change")
	}
}

func TestUpdateFields_NotFound(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)
	before := repo.List()

	err := repo.UpdateFields("NOPE", models.CourseEdit{Description: "x", Comments: "y"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, before, repo.List())
}

func TestFindByCode_NotFound(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)

	_, err := repo.FindByCode("NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindByCode_ReturnsCopy(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)

	c, err := repo.FindByCode("FARM_7101")
	require.NoError(t, err)
	c.Description = "mutated"

	again, err := repo.FindByCode("FARM_7101")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Description)
}

func TestPersist_WritesEdits(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)
	require.NoError(t, repo.UpdateFields("FARM_7102", models.CourseEdit{Description: "d2", Comments: "c2"}))
	require.NoError(t, repo.Persist())

	reloaded := NewCatalogRepository(repo.Path())
	require.NoError(t, reloaded.Load())
	c, err := reloaded.FindByCode("FARM_7102")
	require.NoError(t, err)
	assert.Equal(t, "d2", c.Description)
	assert.Equal(t, "c2", c.Comments)
	assert.Equal(t, 4, c.Credits)
}

func TestPersist_FailureKeepsMemoryAndAllowsRetry(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)
	require.NoError(t, repo.UpdateFields("FARM_7101", models.CourseEdit{Description: "d", Comments: "c"}))

	// A non-empty directory in place of the file makes the rename fail.
	require.NoError(t, os.Remove(repo.Path()))
	require.NoError(t, os.MkdirAll(filepath.Join(repo.Path(), "blocker"), 0o755))

	err := repo.Persist()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPersistFailure)

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file %s left behind", e.Name())
	}

	c, err := repo.FindByCode("FARM_7101")
	require.NoError(t, err)
	assert.Equal(t, "d", c.Description, "edit stays applied in memory")

	require.NoError(t, os.RemoveAll(repo.Path()))
	require.NoError(t, repo.Persist())

	reloaded := NewCatalogRepository(repo.Path())
	require.NoError(t, reloaded.Load())
	c, err = reloaded.FindByCode("FARM_7101")
	require.NoError(t, err)
	assert.Equal(t, "d", c.Description)
	assert.Equal(t, "c", c.Comments)
}

func TestPersist_FailureLeavesFileIntact(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)
	original, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	renameErr := errors.New("disk full")
	rename = func(string, string) error { return renameErr }
	t.Cleanup(func() { rename = os.Rename })

	require.NoError(t, repo.UpdateFields("FARM_7101", models.CourseEdit{Description: "d", Comments: "c"}))
	err = repo.Persist()
	assert.ErrorIs(t, err, apperrors.ErrPersistFailure)
	assert.ErrorIs(t, err, renameErr)

	got, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, string(original), string(got))

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file removed")
}

func TestPersist_UnwritableDirLeavesFileIntact(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	repo := loadedRepo(t, sampleCSV)
	original, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	dir := filepath.Dir(repo.Path())
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	require.NoError(t, repo.UpdateFields("FARM_7102", models.CourseEdit{Description: "d", Comments: "c"}))
	assert.ErrorIs(t, repo.Persist(), apperrors.ErrPersistFailure)

	got, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, string(original), string(got))
}

func TestPersist_KeepsFileMode(t *testing.T) {
	repo := loadedRepo(t, sampleCSV)
	require.NoError(t, os.Chmod(repo.Path(), 0o640))

	require.NoError(t, repo.Persist())

	fi, err := os.Stat(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
}
