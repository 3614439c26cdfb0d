package http

import "github.com/projlens/projlens-backend/internal/projects/domain"

type createReq struct {
	Name string `json:"name"`
	// Access entries may be raw user ids or {"userId": n} objects;
	// AccessEntry normalizes both.
	ProjectAccess []domain.AccessEntry `json:"projectAccess"`
}

func (r createReq) accessIDs() []int64 {
	if len(r.ProjectAccess) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(r.ProjectAccess))
	for _, entry := range r.ProjectAccess {
		ids = append(ids, entry.UserID)
	}
	return ids
}
