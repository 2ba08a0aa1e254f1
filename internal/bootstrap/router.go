package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/proposalcraft/proposalcraft-backend/internal/api/http"
	"github.com/proposalcraft/proposalcraft-backend/internal/api/http/middleware"
	"github.com/proposalcraft/proposalcraft-backend/internal/api/http/routes"
	"github.com/proposalcraft/proposalcraft-backend/internal/metrics"
	proposalshttp "github.com/proposalcraft/proposalcraft-backend/internal/proposals/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Storage     httpapi.Pinger
	Sessions    func() int
	Metrics     *metrics.Metrics
	Proposals   *proposalshttp.Handler
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(dep.Metrics.Middleware())
	if len(dep.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Storage, dep.Sessions)
	healthHandler.RegisterRoutes(r)

	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	}

	routes.RegisterV1(r, routes.V1Deps{Proposals: dep.Proposals})

	return r
}
