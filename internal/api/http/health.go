package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool and docstore.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Docstore  string    `json:"docstore"`
	Storage   string    `json:"storage"`
	DB        string    `json:"db,omitempty"`
}

type HealthHandler struct {
	serviceName  string
	version      string
	docstoreName string
	docs         Pinger
	storageName  string
	db           Pinger
}

// NewHealthHandler takes a nil db when no database is configured.
func NewHealthHandler(serviceName, version, docstoreName string, docs Pinger, storageName string, db Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName:  serviceName,
		version:      version,
		docstoreName: docstoreName,
		docs:         docs,
		storageName:  storageName,
		db:           db,
	}
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	docStatus := ping(c.Request.Context(), h.docs)
	status, code := "healthy", http.StatusOK
	if docStatus == "down" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Docstore:  h.docstoreName + ":" + docStatus,
		Storage:   h.storageName,
		DB:        ping(c.Request.Context(), h.db),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
