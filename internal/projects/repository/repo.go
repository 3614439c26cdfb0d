package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/projlens/projlens-backend/internal/projects/domain"
	"github.com/projlens/projlens-backend/internal/users"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const selectWithAccess = `
SELECT p.id, p.name, p.created_by,
       COALESCE(array_agg(pa.user_id) FILTER (WHERE pa.user_id IS NOT NULL), '{}')
FROM projects p
LEFT JOIN project_access pa ON pa.project_id = p.id
`

// FindAll returns every project in repository order. Admin-only path;
// the caller is responsible for having checked the admin flag.
func (r *ProjectRepository) FindAll(ctx context.Context) ([]domain.Project, error) {
	const q = selectWithAccess + `
GROUP BY p.id
ORDER BY p.id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProjects(rows)
}

// FindAccessible returns projects the user owns or is shared on, in
// repository order. The filter matches the analyses scoping exactly.
func (r *ProjectRepository) FindAccessible(ctx context.Context, userID int64) ([]domain.Project, error) {
	const q = selectWithAccess + `
WHERE p.created_by = $1
   OR EXISTS (
        SELECT 1 FROM project_access x
        WHERE x.project_id = p.id AND x.user_id = $1
      )
GROUP BY p.id
ORDER BY p.id;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProjects(rows)
}

// FindByIDWithAccess returns the fully hydrated project or nil when
// absent. The access list is always loaded so authorization never runs
// against a partial row.
func (r *ProjectRepository) FindByIDWithAccess(ctx context.Context, id int64) (*domain.Project, error) {
	const q = selectWithAccess + `
WHERE p.id = $1
GROUP BY p.id;
`
	var (
		pid       int64
		name      string
		createdBy int64
		accessIDs []int64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&pid, &name, &createdBy, pq.Array(&accessIDs))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	project, err := domain.NewProject(pid, name, createdBy, toAccessEntries(accessIDs))
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create inserts the project and its access rows in one transaction.
// Every referenced user must exist; otherwise the whole operation rolls
// back and no partial creation is observable.
func (r *ProjectRepository) Create(ctx context.Context, name string, createdBy int64, access []int64) (domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Project{}, err
	}
	defer tx.Rollback()

	const insertProject = `
INSERT INTO projects (name, created_by)
VALUES ($1, $2)
RETURNING id;
`
	var id int64
	if err := tx.QueryRowContext(ctx, insertProject, name, createdBy).Scan(&id); err != nil {
		return domain.Project{}, err
	}

	if len(access) > 0 {
		if err := users.AssertExist(ctx, tx, access); err != nil {
			return domain.Project{}, err
		}

		const insertAccess = `
INSERT INTO project_access (project_id, user_id)
SELECT $1, unnest($2::bigint[]);
`
		if _, err := tx.ExecContext(ctx, insertAccess, id, pq.Array(access)); err != nil {
			return domain.Project{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Project{}, err
	}

	return domain.NewProject(id, name, createdBy, toAccessEntries(access))
}

func scanProjects(rows *sql.Rows) ([]domain.Project, error) {
	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var (
			id        int64
			name      string
			createdBy int64
			accessIDs []int64
		)
		if err := rows.Scan(&id, &name, &createdBy, pq.Array(&accessIDs)); err != nil {
			return nil, err
		}
		project, err := domain.NewProject(id, name, createdBy, toAccessEntries(accessIDs))
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func toAccessEntries(ids []int64) []domain.AccessEntry {
	entries := make([]domain.AccessEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, domain.AccessEntry{UserID: id})
	}
	return entries
}
