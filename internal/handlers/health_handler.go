package handlers

import (
	"context"
	"net/http"

	"holdings-api/internal/services"
	"holdings-api/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler reports database reachability
type HealthHandler struct {
	healthService services.HealthService
	logger        *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthService services.HealthService, logger *logrus.Logger) *HealthHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &HealthHandler{healthService: healthService, logger: logger}
}

// Health handles GET /api/health
// @Summary Database health
// @Description Reads the database server time
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, err := h.healthService.Check(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// HandleHealth is the Lambda variant of Health
func (h *HealthHandler) HandleHealth(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	status, err := h.healthService.Check(ctx)
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}
	return lambda.JSONResponse(http.StatusOK, status)
}
