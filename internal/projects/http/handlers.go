package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projlens/projlens-backend/internal/apperr"
	"github.com/projlens/projlens-backend/internal/auth"
	"github.com/projlens/projlens-backend/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

func NewHandler(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) list(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		fail(c, apperr.Authf("Unauthorized: No token provided"))
		return
	}

	projects, err := h.svc.List(c.Request.Context(), actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) get(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		fail(c, apperr.Authf("Unauthorized: No token provided"))
		return
	}

	projectID, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
	if err != nil {
		fail(c, apperr.Validationf("wrong projectId"))
		return
	}

	project, err := h.svc.Get(c.Request.Context(), projectID, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) create(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		fail(c, apperr.Authf("Unauthorized: No token provided"))
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validationf("Invalid data"))
		return
	}

	project, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Name:   req.Name,
		Access: req.accessIDs(),
	}, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
