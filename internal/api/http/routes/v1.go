package routes

import (
	"github.com/gin-gonic/gin"

	proposalshttp "github.com/proposalcraft/proposalcraft-backend/internal/proposals/http"
)

type V1Deps struct {
	Proposals *proposalshttp.Handler
}

// RegisterV1 mounts the versioned API under /api/v1.
func RegisterV1(r *gin.Engine, dep V1Deps) *gin.RouterGroup {
	api := r.Group("/api/v1")
	dep.Proposals.Register(api)
	return api
}
