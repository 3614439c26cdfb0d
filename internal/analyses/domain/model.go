package domain

import (
	"strings"

	"github.com/projlens/projlens-backend/internal/apperr"
)

// Analysis belongs to a project and carries no access list of its own;
// visibility is delegated entirely to the parent project.
type Analysis struct {
	ID        int64
	Name      string
	ProjectID int64
	CreatedBy *int64 // nil only for administratively seeded rows
}

// NewAnalysis validates structural invariants at construction, never at
// persistence time.
func NewAnalysis(id int64, name string, projectID int64, createdBy *int64) (Analysis, error) {
	if id <= 0 {
		return Analysis{}, apperr.Validationf("Invalid analysis ID")
	}
	if strings.TrimSpace(name) == "" {
		return Analysis{}, apperr.Validationf("Invalid analysis name")
	}
	return Analysis{ID: id, Name: name, ProjectID: projectID, CreatedBy: createdBy}, nil
}

type DTOOptions struct {
	IncludeProjectID bool
	IncludeCreatedBy bool
}

type AnalysisDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProjectID int64  `json:"projectId,omitempty"`
	CreatedBy int64  `json:"createdBy,omitempty"`
}

// DTO projects the entity without mutating it; optional fields are
// absent unless explicitly requested.
func (a Analysis) DTO(opts DTOOptions) AnalysisDTO {
	dto := AnalysisDTO{ID: a.ID, Name: a.Name}
	if opts.IncludeProjectID && a.ProjectID > 0 {
		dto.ProjectID = a.ProjectID
	}
	if opts.IncludeCreatedBy && a.CreatedBy != nil {
		dto.CreatedBy = *a.CreatedBy
	}
	return dto
}
