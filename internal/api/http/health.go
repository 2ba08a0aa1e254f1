package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose reachability the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Storage   string    `json:"storage,omitempty"`
	Sessions  int       `json:"sessions"`
}

type HealthHandler struct {
	serviceName string
	version     string
	storage     Pinger
	sessions    func() int
}

func NewHealthHandler(serviceName, version string, storage Pinger, sessions func() int) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		storage:     storage,
		sessions:    sessions,
	}
}

// HealthCheck always answers 200; a storage outage is reported as
// "degraded" because editing sessions keep working without it.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	storageStatus := "disabled"
	if h.storage != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.storage.Ping(pingCtx); err != nil {
			storageStatus = "down"
			status = "degraded"
		} else {
			storageStatus = "up"
		}
	}

	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions()
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Storage:   storageStatus,
		Sessions:  sessions,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
