package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/database"
	"github.com/mrlokans/tourism/internal/logging"
)

const healthPingTimeout = 2 * time.Second

// Datastore is the part of the database store the health check needs.
type Datastore interface {
	Ping(ctx context.Context) error
	Backend() database.Backend
}

// DatastoreCheck never carries the connection target or driver error;
// those go to the log.
type DatastoreCheck struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Time     string         `json:"time"`
	Version  string         `json:"version,omitempty"`
	Database DatastoreCheck `json:"database"`
}

type HealthController struct {
	db      Datastore
	version string
	logger  *zap.Logger
}

func NewHealthController(db Datastore, version string, logger *zap.Logger) *HealthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthController{db: db, version: version, logger: logger}
}

// Status pings the datastore. Only an unreachable datastore makes the
// service unhealthy.
func (h *HealthController) Status(c *gin.Context) {
	health := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Version:  h.version,
		Database: h.checkDatastore(c),
	}

	code := http.StatusOK
	if health.Database.Status == "unreachable" {
		health.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, health)
}

func (h *HealthController) checkDatastore(c *gin.Context) DatastoreCheck {
	if h.db == nil {
		return DatastoreCheck{Status: "not configured"}
	}
	check := DatastoreCheck{Status: "ok", Backend: h.db.Backend().Name()}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logging.FromContext(c, h.logger).Warn("health check: datastore ping failed",
			zap.String("backend", check.Backend),
			zap.Error(err),
		)
		check.Status = "unreachable"
	}
	return check
}

func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
