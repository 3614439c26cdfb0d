package unit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpmw "github.com/projlens/projlens-backend/internal/api/http/middleware"
	"github.com/projlens/projlens-backend/internal/auth"
	authdomain "github.com/projlens/projlens-backend/internal/auth/domain"
	"github.com/projlens/projlens-backend/internal/projects/domain"
)

type fakeProjectFinder struct {
	projects map[int64]domain.Project
}

func (f *fakeProjectFinder) FindByIDWithAccess(_ context.Context, id int64) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// setupScopedRouter wires the resolution pipeline the way the real
// router does: resolve the project, authorize, then hand off.
func setupScopedRouter(t *testing.T, actor authdomain.Actor) *gin.Engine {
	t.Helper()
	p, err := domain.NewProject(3, "Projet Manager 1", 2, []domain.AccessEntry{{UserID: 3}})
	require.NoError(t, err)

	finder := &fakeProjectFinder{projects: map[int64]domain.Project{3: p}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(httpmw.Errors(zap.NewNop()))
	router.Use(func(c *gin.Context) {
		if actor.ID > 0 {
			c.Set(auth.CtxActor, actor)
		}
	})
	scoped := router.Group("/projects/:projectId")
	scoped.Use(httpmw.ResolveProject(finder), httpmw.ProjectAccess())
	handler := func(c *gin.Context) {
		project, _ := httpmw.ProjectFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": project.ID, "name": project.Name})
	}
	scoped.GET("/analyses", handler)
	scoped.POST("/analyses", handler)
	return router
}

func doScopedRequest(router *gin.Engine, method, path string) (*httptest.ResponseRecorder, httpmw.ErrorResponse) {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body httpmw.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestResolveProject(t *testing.T) {
	t.Run("resolved project is published to the handler", func(t *testing.T) {
		router := setupScopedRouter(t, readerActor)
		w, _ := doScopedRequest(router, http.MethodGet, "/projects/3/analyses")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"name":"Projet Manager 1"}`, w.Body.String())
	})

	t.Run("non-numeric id", func(t *testing.T) {
		router := setupScopedRouter(t, readerActor)
		w, body := doScopedRequest(router, http.MethodGet, "/projects/abc/analyses")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing project's ID", body.Error)
		assert.Equal(t, http.StatusBadRequest, body.StatusCode)
	})

	t.Run("unknown project is NotFound before any rule runs", func(t *testing.T) {
		router := setupScopedRouter(t, readerActor)
		w, body := doScopedRequest(router, http.MethodGet, "/projects/999/analyses")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Project not found (ID: 999)", body.Error)
	})
}

func TestProjectAccess(t *testing.T) {
	t.Run("admin writes anywhere", func(t *testing.T) {
		router := setupScopedRouter(t, adminActor)
		w, _ := doScopedRequest(router, http.MethodPost, "/projects/3/analyses")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("sharee reads but cannot write", func(t *testing.T) {
		// Reader user 3 is on the access list of project 3.
		router := setupScopedRouter(t, readerActor)

		w, _ := doScopedRequest(router, http.MethodGet, "/projects/3/analyses")
		assert.Equal(t, http.StatusOK, w.Code)

		w, body := doScopedRequest(router, http.MethodPost, "/projects/3/analyses")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Unauthorized attempt to write in project (ID: 3)", body.Error)
	})

	t.Run("manager sharee write denial names the access rule", func(t *testing.T) {
		sharee := authdomain.Actor{ID: 3, Role: authdomain.RoleManager}
		router := setupScopedRouter(t, sharee)
		w, body := doScopedRequest(router, http.MethodPost, "/projects/3/analyses")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Unauthorized access (ID: 3)", body.Error)
	})

	t.Run("stranger cannot even read", func(t *testing.T) {
		stranger := authdomain.Actor{ID: 42, Role: authdomain.RoleManager}
		router := setupScopedRouter(t, stranger)
		w, body := doScopedRequest(router, http.MethodGet, "/projects/3/analyses")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Unauthorized access (ID: 3)", body.Error)
	})

	t.Run("missing actor reads as unauthenticated", func(t *testing.T) {
		router := setupScopedRouter(t, authdomain.Actor{})
		w, body := doScopedRequest(router, http.MethodGet, "/projects/3/analyses")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized: No token provided", body.Error)
	})
}
