package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/projlens/projlens-backend/internal/apperr"
	"github.com/projlens/projlens-backend/internal/auth/domain"
)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// GetByID returns the user with its role name, or nil when absent.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `
SELECT u.id, u.username, u.email, u.is_admin, COALESCE(r.name, '')
FROM users u
LEFT JOIN user_roles ur ON ur.user_id = u.id
LEFT JOIN roles r ON r.id = ur.role_id
WHERE u.id = $1;
`
	var user domain.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.IsAdmin,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// so the existence check can run inside the caller's transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// AssertExist verifies that every id has a users row. It fails with a
// ValidationError naming all missing ids, so a partial access list is
// rejected as a whole.
func AssertExist(ctx context.Context, q Querier, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	const query = `SELECT id FROM users WHERE id = ANY($1);`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, fmt.Sprintf("%d", id))
		}
	}
	if len(missing) > 0 {
		return apperr.Validationf("Following users doesn't exist: %s", strings.Join(missing, ", "))
	}
	return nil
}
