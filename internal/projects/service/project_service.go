package service

import (
	"context"
	"strings"

	"github.com/projlens/projlens-backend/internal/apperr"
	authdomain "github.com/projlens/projlens-backend/internal/auth/domain"
	"github.com/projlens/projlens-backend/internal/ensure"
	"github.com/projlens/projlens-backend/internal/projects/domain"
)

// ProjectStore is the repository contract the service depends on.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]domain.Project, error)
	FindAccessible(ctx context.Context, userID int64) ([]domain.Project, error)
	FindByIDWithAccess(ctx context.Context, id int64) (*domain.Project, error)
	Create(ctx context.Context, name string, createdBy int64, access []int64) (domain.Project, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo ProjectStore
}

// NewProjectService creates a new project service
func NewProjectService(repo ProjectStore) *ProjectService {
	return &ProjectService{repo: repo}
}

// List returns the projects visible to the actor: everything for
// admins, owned plus shared for everyone else.
func (s *ProjectService) List(ctx context.Context, actor authdomain.Actor) ([]domain.ProjectDTO, error) {
	if err := validActor(actor); err != nil {
		return nil, err
	}

	var (
		projects []domain.Project
		err      error
	)
	if actor.IsAdmin {
		projects, err = s.repo.FindAll(ctx)
	} else {
		projects, err = s.repo.FindAccessible(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, p.DTO(domain.DTOOptions{}))
	}
	return dtos, nil
}

// Get resolves the project, authorizes the read and projects it.
func (s *ProjectService) Get(ctx context.Context, projectID int64, actor authdomain.Actor) (domain.ProjectDTO, error) {
	if err := validActor(actor); err != nil {
		return domain.ProjectDTO{}, err
	}
	if projectID <= 0 {
		return domain.ProjectDTO{}, apperr.Validationf("wrong projectId")
	}

	project, err := ensure.Exists(ctx, "Project", projectID, s.repo.FindByIDWithAccess)
	if err != nil {
		return domain.ProjectDTO{}, err
	}
	if err := domain.Authorize(*project, actor, domain.IntentRead); err != nil {
		return domain.ProjectDTO{}, err
	}
	return project.DTO(domain.DTOOptions{}), nil
}

// FindByID is the internal projection used by trusted callers; it skips
// project-level authorization and exposes ownership and the access list.
func (s *ProjectService) FindByID(ctx context.Context, projectID int64) (domain.ProjectDTO, error) {
	if projectID <= 0 {
		return domain.ProjectDTO{}, apperr.Validationf("wrong projectId")
	}

	project, err := ensure.Exists(ctx, "Project", projectID, s.repo.FindByIDWithAccess)
	if err != nil {
		return domain.ProjectDTO{}, err
	}
	return project.DTO(domain.DTOOptions{IncludeCreatedBy: true, IncludeAccess: true}), nil
}

// CreateParams carries validated creation input. Access entries arrive
// already normalized by the transport layer.
type CreateParams struct {
	Name   string
	Access []int64
}

// Create applies the creation role gate then persists the project and
// its access rows atomically.
func (s *ProjectService) Create(ctx context.Context, params CreateParams, actor authdomain.Actor) (domain.ProjectDTO, error) {
	if err := validActor(actor); err != nil {
		return domain.ProjectDTO{}, err
	}
	if strings.TrimSpace(params.Name) == "" {
		return domain.ProjectDTO{}, apperr.Validationf("wrong project name")
	}
	if actor.Role == "" {
		return domain.ProjectDTO{}, apperr.Validationf("wrong user role name")
	}

	if err := domain.GateCreate(actor); err != nil {
		return domain.ProjectDTO{}, err
	}

	project, err := s.repo.Create(ctx, params.Name, actor.ID, params.Access)
	if err != nil {
		return domain.ProjectDTO{}, err
	}
	return project.DTO(domain.DTOOptions{}), nil
}

func validActor(actor authdomain.Actor) error {
	if actor.ID <= 0 {
		return apperr.Validationf("wrong userId")
	}
	return nil
}
