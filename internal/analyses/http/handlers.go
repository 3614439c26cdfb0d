package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projlens/projlens-backend/internal/analyses/service"
	httpmw "github.com/projlens/projlens-backend/internal/api/http/middleware"
	"github.com/projlens/projlens-backend/internal/apperr"
	"github.com/projlens/projlens-backend/internal/auth"
	authdomain "github.com/projlens/projlens-backend/internal/auth/domain"
)

type Handler struct {
	svc *service.AnalysisService
}

func NewHandler(svc *service.AnalysisService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) list(c *gin.Context) {
	project, actor, ok := requestScope(c)
	if !ok {
		return
	}

	analyses, err := h.svc.ListByProject(c.Request.Context(), project, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analyses)
}

func (h *Handler) get(c *gin.Context) {
	project, actor, ok := requestScope(c)
	if !ok {
		return
	}

	analysisID, err := strconv.ParseInt(c.Param("analysisId"), 10, 64)
	if err != nil {
		fail(c, apperr.Validationf("wrong analysisId"))
		return
	}

	analysis, err := h.svc.GetByProject(c.Request.Context(), project, analysisID, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) create(c *gin.Context) {
	project, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validationf("Analysis name is required"))
		return
	}

	analysis, err := h.svc.Create(c.Request.Context(), req.Name, project, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, analysis)
}

// requestScope pulls the resolved project id and actor out of the
// context populated by the resolution and auth middleware.
func requestScope(c *gin.Context) (int64, authdomain.Actor, bool) {
	project, ok := httpmw.ProjectFrom(c)
	if !ok {
		fail(c, apperr.Internalf("project not resolved before handler"))
		return 0, authdomain.Actor{}, false
	}
	actor, ok := auth.ActorFrom(c)
	if !ok {
		fail(c, apperr.Authf("Unauthorized: No token provided"))
		return 0, authdomain.Actor{}, false
	}
	return project.ID, actor, true
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
