// Package ensure wraps lookups so that "not found" surfaces as a typed
// failure before authorization runs, and is never confused with
// "exists but denied".
package ensure

import (
	"context"

	"github.com/projlens/projlens-backend/internal/apperr"
)

// Exists runs the lookup and fails with a NotFound error naming the
// entity kind and id when the lookup reports absence with a nil value.
func Exists[T any](ctx context.Context, kind string, id int64, lookup func(context.Context, int64) (*T, error)) (*T, error) {
	v, err := lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFoundf("%s not found (ID: %d)", kind, id)
	}
	return v, nil
}
