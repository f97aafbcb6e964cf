package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mosaic-folio/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	return openTestDatabase(t, ":memory:")
}

func openTestDatabase(t *testing.T, path string) Database {
	t.Helper()

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	d := New(db)
	require.NoError(t, d.Migrate(context.Background(), models.DefaultCategories))
	return d
}

func addSubmission(t *testing.T, d Database, title, handle string, categoryID uint) *models.Submission {
	t.Helper()
	ctx := context.Background()

	student, _, err := d.StudentRepo().FindOrCreate(ctx, handle)
	require.NoError(t, err)

	submission := &models.Submission{
		Title:      title,
		Github:     "https://github.com/" + handle + "/" + title,
		Demolink:   "https://" + title + ".demo",
		StudentID:  student.ID,
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, d.SubmissionRepo().Add(ctx, submission))
	return submission
}

func TestMigrateSeedsCategories(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	categories, err := d.CategoryRepo().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(models.DefaultCategories))
	assert.Equal(t, "Portfolio", categories[0].Name)

	// re-running migrations renames without duplicating
	require.NoError(t, d.Migrate(ctx, []models.Category{{ID: 1, Name: "Personal site"}}))
	category, err := d.CategoryRepo().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Personal site", category.Name)

	categories, err = d.CategoryRepo().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(models.DefaultCategories))

	report, err := models.ColumnMismatches(d.GetDB())
	require.NoError(t, err)
	for table, extra := range report {
		assert.Empty(t, extra, "table %s", table)
	}
}

func TestStudentFindOrCreate(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	first, created, err := d.StudentRepo().FindOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second, created, err := d.StudentRepo().FindOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	n, err := d.StudentRepo().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStudentFindOrCreateConcurrent(t *testing.T) {
	// a file database so each caller gets its own connection
	d := openTestDatabase(t, filepath.Join(t.TempDir(), "mosaic.db"))
	ctx := context.Background()

	sqlDB, err := d.GetDB().DB()
	require.NoError(t, err)
	require.Greater(t, sqlDB.Stats().MaxOpenConnections, 1)

	const callers = 16
	ids := make([]uint, callers)
	created := make([]bool, callers)
	start := make(chan struct{})

	var g errgroup.Group
	for i := 0; i < callers; i++ {
		i := i
		g.Go(func() error {
			<-start
			return d.Transaction(ctx, func(tx Database) error {
				student, isNew, err := tx.StudentRepo().FindOrCreate(ctx, "bob")
				if err != nil {
					return err
				}
				ids[i] = student.ID
				created[i] = isNew
				return nil
			})
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	inserted := 0
	for i, id := range ids {
		assert.Equal(t, ids[0], id)
		if created[i] {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)

	n, err := d.StudentRepo().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSubmissionRejectsUnknownCategory(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	student, _, err := d.StudentRepo().FindOrCreate(ctx, "carol")
	require.NoError(t, err)

	err = d.SubmissionRepo().Add(ctx, &models.Submission{
		Title:      "Ghost",
		Github:     "https://github.com/carol/ghost",
		Demolink:   "https://ghost.demo",
		StudentID:  student.ID,
		CategoryID: 999,
		CreatedAt:  time.Now(),
	})
	assert.Error(t, err)

	n, err := d.SubmissionRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFindViewsFilters(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	foo := addSubmission(t, d, "foo", "alice", 1)
	bar := addSubmission(t, d, "bar", "alice", 2)
	baz := addSubmission(t, d, "baz", "bob", 1)

	_, err := d.SubmissionRepo().MarkValidated(ctx, bar.ID, time.Now().UTC())
	require.NoError(t, err)

	t.Run("default lists validated only", func(t *testing.T) {
		views, err := d.SubmissionRepo().FindViews(ctx, SubmissionFilter{})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, bar.ID, views[0].ID)
		assert.Equal(t, "Landing page", views[0].ProjectName)
	})

	t.Run("pending lists unvalidated only", func(t *testing.T) {
		views, err := d.SubmissionRepo().FindViews(ctx, SubmissionFilter{Pending: true})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, foo.ID, views[0].ID)
		assert.Equal(t, baz.ID, views[1].ID)
	})

	t.Run("category ignores validation state", func(t *testing.T) {
		category := uint(1)
		views, err := d.SubmissionRepo().FindViews(ctx, SubmissionFilter{CategoryID: &category})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "bob", views[1].GitUsername)
	})

	t.Run("id projects every field", func(t *testing.T) {
		views, err := d.SubmissionRepo().FindViews(ctx, SubmissionFilter{ID: &foo.ID, Pending: true})
		require.NoError(t, err)
		require.Len(t, views, 1)

		v := views[0]
		assert.Equal(t, foo.ID, v.ID)
		assert.Equal(t, "foo", v.Title)
		assert.Equal(t, foo.Github, v.Github)
		assert.Equal(t, foo.Demolink, v.Demolink)
		assert.Equal(t, uint(1), v.ProjectID)
		assert.Equal(t, "Portfolio", v.ProjectName)
		assert.Equal(t, "alice", v.GitUsername)
		assert.Equal(t, foo.StudentID, v.StudentID)
		assert.WithinDuration(t, foo.CreatedAt, v.CreatedAt, time.Second)
	})

	t.Run("unknown id is an empty result", func(t *testing.T) {
		missing := uint(4242)
		views, err := d.SubmissionRepo().FindViews(ctx, SubmissionFilter{ID: &missing})
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})
}

func TestMarkValidated(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	submission := addSubmission(t, d, "foo", "alice", 1)
	assert.True(t, submission.Pending())

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	validated, err := d.SubmissionRepo().MarkValidated(ctx, submission.ID, first)
	require.NoError(t, err)
	require.NotNil(t, validated.ValidatedAt)
	assert.True(t, first.Equal(*validated.ValidatedAt))

	again, err := d.SubmissionRepo().MarkValidated(ctx, submission.ID, first.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, first.Equal(*again.ValidatedAt), "first validation timestamp is kept")

	_, err = d.SubmissionRepo().MarkValidated(ctx, 4242, first)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestTransactionRollsBack(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := d.Transaction(ctx, func(tx Database) error {
		if _, _, err := tx.StudentRepo().FindOrCreate(ctx, "dave"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = d.StudentRepo().FindByGitUsername(ctx, "dave")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestParseCategories(t *testing.T) {
	categories, err := ParseCategories("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategories, categories)

	categories, err = ParseCategories(" 1:Portfolio , 7:Game ")
	require.NoError(t, err)
	assert.Equal(t, []models.Category{{ID: 1, Name: "Portfolio"}, {ID: 7, Name: "Game"}}, categories)

	_, err = ParseCategories("x:Portfolio")
	assert.Error(t, err)
	_, err = ParseCategories("1:")
	assert.Error(t, err)
	_, err = ParseCategories("1:A,1:B")
	assert.Error(t, err)
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(map[string]string{"DB_TYPE": "oracle"})
	assert.ErrorContains(t, err, "unsupported DB_TYPE")
}
