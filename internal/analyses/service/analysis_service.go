package service

import (
	"context"
	"strings"

	"github.com/projlens/projlens-backend/internal/analyses/domain"
	"github.com/projlens/projlens-backend/internal/apperr"
	authdomain "github.com/projlens/projlens-backend/internal/auth/domain"
	"github.com/projlens/projlens-backend/internal/ensure"
)

// AnalysisStore is the repository contract the service depends on.
type AnalysisStore interface {
	FindAllByProject(ctx context.Context, projectID, userID int64, isAdmin bool) ([]domain.Analysis, error)
	FindByIDInProject(ctx context.Context, projectID, analysisID, userID int64, isAdmin bool) (*domain.Analysis, error)
	Create(ctx context.Context, name string, projectID, createdBy int64) (domain.Analysis, error)
}

// AnalysisService handles analysis-related business logic. Project
// authorization has already happened in the resolution pipeline by the
// time any of these run; the repository still applies visibility
// scoping so the two layers agree.
type AnalysisService struct {
	repo AnalysisStore
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(repo AnalysisStore) *AnalysisService {
	return &AnalysisService{repo: repo}
}

// ListByProject returns the project's analyses visible to the actor.
func (s *AnalysisService) ListByProject(ctx context.Context, projectID int64, actor authdomain.Actor) ([]domain.AnalysisDTO, error) {
	if err := validParams(projectID, actor); err != nil {
		return nil, err
	}

	analyses, err := s.repo.FindAllByProject(ctx, projectID, actor.ID, actor.IsAdmin)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.AnalysisDTO, 0, len(analyses))
	for _, a := range analyses {
		dtos = append(dtos, a.DTO(domain.DTOOptions{}))
	}
	return dtos, nil
}

// GetByProject returns a single analysis, failing with NotFound when it
// does not exist inside the actor's visible scope.
func (s *AnalysisService) GetByProject(ctx context.Context, projectID, analysisID int64, actor authdomain.Actor) (domain.AnalysisDTO, error) {
	if err := validParams(projectID, actor); err != nil {
		return domain.AnalysisDTO{}, err
	}
	if analysisID <= 0 {
		return domain.AnalysisDTO{}, apperr.Validationf("wrong analysisId")
	}

	analysis, err := ensure.Exists(ctx, "Analysis", analysisID, func(ctx context.Context, id int64) (*domain.Analysis, error) {
		return s.repo.FindByIDInProject(ctx, projectID, id, actor.ID, actor.IsAdmin)
	})
	if err != nil {
		return domain.AnalysisDTO{}, err
	}
	return analysis.DTO(domain.DTOOptions{}), nil
}

// Create persists a new analysis under the project. The write gates
// (role and ownership) have already run in the resolution pipeline.
func (s *AnalysisService) Create(ctx context.Context, name string, projectID int64, actor authdomain.Actor) (domain.AnalysisDTO, error) {
	if err := validParams(projectID, actor); err != nil {
		return domain.AnalysisDTO{}, err
	}
	if strings.TrimSpace(name) == "" {
		return domain.AnalysisDTO{}, apperr.Validationf("Analysis name is required")
	}

	analysis, err := s.repo.Create(ctx, name, projectID, actor.ID)
	if err != nil {
		return domain.AnalysisDTO{}, err
	}
	return analysis.DTO(domain.DTOOptions{}), nil
}

func validParams(projectID int64, actor authdomain.Actor) error {
	if projectID <= 0 {
		return apperr.Validationf("wrong projectId")
	}
	if actor.ID <= 0 {
		return apperr.Validationf("wrong userId")
	}
	return nil
}
