package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projlens/projlens-backend/internal/apperr"
	"github.com/projlens/projlens-backend/internal/auth"
	"github.com/projlens/projlens-backend/internal/ensure"
	"github.com/projlens/projlens-backend/internal/projects/domain"
)

// CtxProject is the gin context key under which ResolveProject
// publishes the hydrated project entity.
const CtxProject = "project"

// ProjectFinder loads a fully hydrated project, nil when absent.
type ProjectFinder interface {
	FindByIDWithAccess(ctx context.Context, id int64) (*domain.Project, error)
}

// ResolveProject resolves the :projectId route parameter exactly once
// per request: parse, existence-check, construct the entity and publish
// it for downstream consumers. Nested routes reuse the resolved project
// instead of querying again.
func ResolveProject(finder ProjectFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
		if err != nil || projectID <= 0 {
			abort(c, apperr.Validationf("Missing project's ID"))
			return
		}

		project, err := ensure.Exists(c.Request.Context(), "Project", projectID, finder.FindByIDWithAccess)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(CtxProject, *project)
		c.Next()
	}
}

// ProjectFrom extracts the resolved project from the Gin context.
// This is set by ResolveProject.
func ProjectFrom(c *gin.Context) (domain.Project, bool) {
	v, ok := c.Get(CtxProject)
	if !ok {
		return domain.Project{}, false
	}
	project, ok := v.(domain.Project)
	return project, ok
}

// ProjectAccess authorizes the actor against the resolved project.
// Intent is derived from the verb: anything but GET is a write. For
// writes the role gate runs first, so its denial stays distinguishable
// from the ownership-level one. Denial aborts before any handler runs.
func ProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := ProjectFrom(c)
		if !ok {
			abort(c, apperr.Internalf("project not resolved before authorization"))
			return
		}
		actor, ok := auth.ActorFrom(c)
		if !ok {
			abort(c, apperr.Authf("Unauthorized: No token provided"))
			return
		}

		intent := domain.IntentRead
		if c.Request.Method != http.MethodGet {
			intent = domain.IntentWrite
		}

		if intent == domain.IntentWrite {
			if err := domain.GateWrite(actor, project.ID); err != nil {
				abort(c, err)
				return
			}
		}
		if err := domain.Authorize(project, actor, intent); err != nil {
			abort(c, err)
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
