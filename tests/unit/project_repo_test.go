package unit

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projlens/projlens-backend/internal/apperr"
	"github.com/projlens/projlens-backend/internal/projects/domain"
	"github.com/projlens/projlens-backend/internal/projects/repository"
)

func setupProjectRepo(t *testing.T) (*repository.ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := repository.NewProjectRepository(db)
	return repo, mock, db
}

func projectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "created_by", "access"})
}

func TestProjectRepository_FindAll(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM projects p`).
		WillReturnRows(projectRows().
			AddRow(1, "Projet Admin 1", 1, "{}").
			AddRow(3, "Projet Manager 1", 2, "{3}"))

	projects, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, int64(1), projects[0].ID)
	assert.Equal(t, []domain.AccessEntry{{UserID: 3}}, projects[1].Access)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_FindAccessible(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM projects p`).
		WithArgs(int64(2)).
		WillReturnRows(projectRows().
			AddRow(2, "Projet Admin 2", 1, "{2}").
			AddRow(3, "Projet Manager 1", 2, "{3}"))

	projects, err := repo.FindAccessible(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Projet Admin 2", projects[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_FindByIDWithAccess(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("hydrates the access list", func(t *testing.T) {
		mock.ExpectQuery(`FROM projects p`).
			WithArgs(int64(3)).
			WillReturnRows(projectRows().AddRow(3, "Projet Manager 1", 2, "{3,4}"))

		project, err := repo.FindByIDWithAccess(context.Background(), 3)
		require.NoError(t, err)
		require.NotNil(t, project)
		assert.Equal(t, []domain.AccessEntry{{UserID: 3}, {UserID: 4}}, project.Access)
	})

	t.Run("absent project is nil, not an error", func(t *testing.T) {
		mock.ExpectQuery(`FROM projects p`).
			WithArgs(int64(999)).
			WillReturnRows(projectRows())

		project, err := repo.FindByIDWithAccess(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, project)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("without access list", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("New Project", int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
		mock.ExpectCommit()

		project, err := repo.Create(context.Background(), "New Project", 2, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(8), project.ID)
	})

	t.Run("with access list inserts all rows in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("New Shared Project", int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectQuery(`SELECT id FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(4))
		mock.ExpectExec(`INSERT INTO project_access`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		project, err := repo.Create(context.Background(), "New Shared Project", 2, []int64{3, 4})
		require.NoError(t, err)
		assert.Equal(t, int64(9), project.ID)
		assert.Equal(t, []domain.AccessEntry{{UserID: 3}, {UserID: 4}}, project.Access)
	})

	t.Run("missing access user rolls the whole creation back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("Doomed", int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
		mock.ExpectQuery(`SELECT id FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), "Doomed", 2, []int64{3, 42, 77})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.EqualError(t, err, "Following users doesn't exist: 42, 77")
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
