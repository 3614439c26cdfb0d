package domain

import (
	"encoding/json"
	"strings"

	"github.com/projlens/projlens-backend/internal/apperr"
)

// AccessEntry is the canonical shape of one access-list grant. The wire
// and storage layers may carry grants as raw user ids or as records with
// a userId field; both are normalized to this before any rule runs.
type AccessEntry struct {
	UserID int64 `json:"userId"`
}

// UnmarshalJSON accepts either a bare integer or {"userId": n}.
func (e *AccessEntry) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		e.UserID = id
		return nil
	}
	var obj struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.UserID = obj.UserID
	return nil
}

// Project is an immutable value object; construction validates and a
// half-valid project is never produced.
type Project struct {
	ID        int64
	Name      string
	CreatedBy int64
	Access    []AccessEntry
}

// NewProject validates structural invariants before returning the entity.
func NewProject(id int64, name string, createdBy int64, access []AccessEntry) (Project, error) {
	if id <= 0 {
		return Project{}, apperr.Validationf("Invalid project ID")
	}
	if strings.TrimSpace(name) == "" {
		return Project{}, apperr.Validationf("Invalid project name")
	}
	return Project{ID: id, Name: name, CreatedBy: createdBy, Access: access}, nil
}

// DTOOptions gates which internal fields a projection exposes. Nothing
// beyond id and name leaves the service unless a call site opts in.
type DTOOptions struct {
	IncludeCreatedBy bool
	IncludeAccess    bool
}

// ProjectDTO is the externally exposed projection of a project.
type ProjectDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	CreatedBy int64   `json:"createdBy,omitempty"`
	Access    []int64 `json:"projectAccess,omitempty"`
}

// DTO projects the entity. It never mutates the source and is safe to
// call repeatedly.
func (p Project) DTO(opts DTOOptions) ProjectDTO {
	dto := ProjectDTO{ID: p.ID, Name: p.Name}
	if opts.IncludeCreatedBy && p.CreatedBy > 0 {
		dto.CreatedBy = p.CreatedBy
	}
	if opts.IncludeAccess && p.Access != nil {
		ids := make([]int64, 0, len(p.Access))
		for _, entry := range p.Access {
			ids = append(ids, entry.UserID)
		}
		dto.Access = ids
	}
	return dto
}
