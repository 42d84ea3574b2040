package handlers

import (
	"context"
	"net/http"

	"holdings-api/internal/models"
	"holdings-api/internal/services"
	"holdings-api/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HoldingHandler handles holding-related HTTP requests
type HoldingHandler struct {
	holdingService services.HoldingService
	logger         *logrus.Logger
}

// NewHoldingHandler creates a new holding handler
func NewHoldingHandler(holdingService services.HoldingService, logger *logrus.Logger) *HoldingHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &HoldingHandler{
		holdingService: holdingService,
		logger:         logger,
	}
}

// ListHoldings handles GET /holdings
// @Summary List holdings
// @Description Get every holding, newest first
// @Tags holdings
// @Produce json
// @Success 200 {object} models.ListResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /holdings [get]
func (h *HoldingHandler) ListHoldings(c *gin.Context) {
	holdings, err := h.holdingService.ListHoldings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.NewListResponse(holdings))
}

// GetHolding handles GET /holdings/:id
// @Summary Get holding by ID
// @Tags holdings
// @Produce json
// @Param id path int true "Holding ID"
// @Success 200 {object} models.Holding
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /holdings/{id} [get]
func (h *HoldingHandler) GetHolding(c *gin.Context) {
	id, err := parseID("holding", c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	holding, err := h.holdingService.GetHolding(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, holding)
}

// CreateHolding handles POST /holdings
// @Summary Create a new holding
// @Description Store a holding. Fields are accepted in camelCase or under their column names.
// @Tags holdings
// @Accept json
// @Produce json
// @Param holding body models.HoldingInput true "Holding data"
// @Success 201 {object} models.Holding
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /holdings [post]
func (h *HoldingHandler) CreateHolding(c *gin.Context) {
	input, err := decodeObject(c.Request.Body)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	holding, err := h.holdingService.CreateHolding(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, holding)
}

// DeleteHolding handles DELETE /holdings/:id
// @Summary Delete holding
// @Tags holdings
// @Param id path int true "Holding ID"
// @Success 204
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /holdings/{id} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	id, err := parseID("holding", c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.holdingService.DeleteHolding(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleList is the Lambda variant of ListHoldings
func (h *HoldingHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	holdings, err := h.holdingService.ListHoldings(ctx)
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}
	return lambda.JSONResponse(http.StatusOK, models.NewListResponse(holdings))
}

// HandleGet is the Lambda variant of GetHolding
func (h *HoldingHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := parseID("holding", req.Param("id"))
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}

	holding, err := h.holdingService.GetHolding(ctx, id)
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}
	return lambda.JSONResponse(http.StatusOK, holding)
}

// HandleCreate is the Lambda variant of CreateHolding
func (h *HoldingHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	input, err := decodeObject(bodyReader(req))
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}

	holding, err := h.holdingService.CreateHolding(ctx, input)
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}
	return lambda.JSONResponse(http.StatusCreated, holding)
}

// HandleDelete is the Lambda variant of DeleteHolding
func (h *HoldingHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := parseID("holding", req.Param("id"))
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}

	if err := h.holdingService.DeleteHolding(ctx, id); err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}
	return lambda.EmptyResponse(http.StatusNoContent), nil
}
