package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/projlens/projlens-backend/internal/analyses/domain"
)

// AnalysisRepository provides persistence operations for analyses
type AnalysisRepository struct {
	db *sql.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Non-admin visibility scopes by the parent project's sharing relation,
// never by an analysis-level one. The predicate is shared verbatim
// between the list and get-by-id queries so the two can never diverge.
const visibilityFilter = `
  AND (
    EXISTS (
      SELECT 1 FROM projects p
      WHERE p.id = a.project_id AND p.created_by = $2
    )
    OR EXISTS (
      SELECT 1 FROM project_access x
      WHERE x.project_id = a.project_id AND x.user_id = $2
    )
  )`

const (
	listAllQuery = `
SELECT a.id, a.name, a.project_id, a.created_by
FROM analyses a
WHERE a.project_id = $1
ORDER BY a.id;
`
	listScopedQuery = `
SELECT a.id, a.name, a.project_id, a.created_by
FROM analyses a
WHERE a.project_id = $1` + visibilityFilter + `
ORDER BY a.id;
`
	getAllQuery = `
SELECT a.id, a.name, a.project_id, a.created_by
FROM analyses a
WHERE a.project_id = $1 AND a.id = $2;
`
	getScopedQuery = `
SELECT a.id, a.name, a.project_id, a.created_by
FROM analyses a
WHERE a.project_id = $1` + visibilityFilter + `
  AND a.id = $3;
`
)

// FindAllByProject returns the analyses of a project visible to the
// user, in repository order. Admins see every analysis in the project.
func (r *AnalysisRepository) FindAllByProject(ctx context.Context, projectID, userID int64, isAdmin bool) ([]domain.Analysis, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if isAdmin {
		rows, err = r.db.QueryContext(ctx, listAllQuery, projectID)
	} else {
		rows, err = r.db.QueryContext(ctx, listScopedQuery, projectID, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Analysis, 0, 16)
	for rows.Next() {
		analysis, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByIDInProject returns one analysis under the same visibility
// scoping, or nil when absent.
func (r *AnalysisRepository) FindByIDInProject(ctx context.Context, projectID, analysisID, userID int64, isAdmin bool) (*domain.Analysis, error) {
	var row *sql.Row
	if isAdmin {
		row = r.db.QueryRowContext(ctx, getAllQuery, projectID, analysisID)
	} else {
		row = r.db.QueryRowContext(ctx, getScopedQuery, projectID, userID, analysisID)
	}

	analysis, err := scanAnalysis(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

// Create inserts a new analysis for the given project.
func (r *AnalysisRepository) Create(ctx context.Context, name string, projectID, createdBy int64) (domain.Analysis, error) {
	const q = `
INSERT INTO analyses (name, project_id, created_by)
VALUES ($1, $2, $3)
RETURNING id;
`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, name, projectID, createdBy).Scan(&id); err != nil {
		return domain.Analysis{}, err
	}
	return domain.NewAnalysis(id, name, projectID, &createdBy)
}

func scanAnalysis(scan func(dest ...any) error) (domain.Analysis, error) {
	var (
		id        int64
		name      string
		projectID int64
		createdBy sql.NullInt64
	)
	if err := scan(&id, &name, &projectID, &createdBy); err != nil {
		return domain.Analysis{}, err
	}
	var by *int64
	if createdBy.Valid {
		by = &createdBy.Int64
	}
	return domain.NewAnalysis(id, name, projectID, by)
}
