package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything that can report its own reachability.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Clients  int    `json:"ws_clients"`
	Error    string `json:"error,omitempty"`
}

// HealthChecker reports service and database health.
type HealthChecker struct {
	db      Pinger
	timeout time.Duration
	clients func() int
}

// NewHealthChecker builds a checker. clients may be nil.
func NewHealthChecker(db Pinger, timeout time.Duration, clients func() int) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{db: db, timeout: timeout, clients: clients}
}

func (h *HealthChecker) Handler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	response := HealthResponse{Status: "ok", Database: "ok"}
	if h.clients != nil {
		response.Clients = h.clients()
	}
	if err := h.db.HealthCheck(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unreachable"
		response.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
