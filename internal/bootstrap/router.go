package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analyseshttp "github.com/projlens/projlens-backend/internal/analyses/http"
	analysesrepo "github.com/projlens/projlens-backend/internal/analyses/repository"
	analysessvc "github.com/projlens/projlens-backend/internal/analyses/service"
	httpapi "github.com/projlens/projlens-backend/internal/api/http"
	"github.com/projlens/projlens-backend/internal/api/http/middleware"
	"github.com/projlens/projlens-backend/internal/apperr"
	authmw "github.com/projlens/projlens-backend/internal/auth/middleware"
	projectshttp "github.com/projlens/projlens-backend/internal/projects/http"
	projectsrepo "github.com/projlens/projlens-backend/internal/projects/repository"
	projectssvc "github.com/projlens/projlens-backend/internal/projects/service"
	"github.com/projlens/projlens-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Logger      *zap.Logger
	JWTSecret   []byte
	CORSOrigins []string
	Limiter     middleware.RateLimiter
}

// BuildRouter is the composition root: repositories and services are
// constructed here and injected downward, never defaulted inside a
// component.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(middleware.Errors(dep.Logger))

	corsCfg := cors.DefaultConfig()
	if len(dep.CORSOrigins) == 1 && dep.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	if dep.Limiter != nil {
		r.Use(middleware.RateLimit(dep.Limiter, dep.Logger))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	projectRepo := projectsrepo.NewProjectRepository(dep.DB)
	analysisRepo := analysesrepo.NewAnalysisRepository(dep.DB)

	projectSvc := projectssvc.NewProjectService(projectRepo)
	analysisSvc := analysessvc.NewAnalysisService(analysisRepo)

	api := r.Group("/api/v1")
	api.Use(authmw.JWTAuth(dep.JWTSecret, userRepo))

	projectsGroup := api.Group("/projects")
	projectshttp.NewHandler(projectSvc).Register(projectsGroup)

	// Nested analysis routes resolve the parent project once and
	// authorize against it before any handler runs.
	projectScoped := projectsGroup.Group("/:projectId")
	projectScoped.Use(middleware.ResolveProject(projectRepo))
	projectScoped.Use(middleware.ProjectAccess())
	analyseshttp.NewHandler(analysisSvc).Register(projectScoped)

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperr.NotFoundf("Route not found"))
	})

	return r
}
