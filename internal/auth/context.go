package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/projlens/projlens-backend/internal/auth/domain"
)

const (
	// CtxActor is the gin context key under which the middleware
	// publishes the authenticated actor.
	CtxActor = "actor"
)

// ActorFrom extracts the authenticated actor from the Gin context.
// This is set by the JWT middleware.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(CtxActor)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
