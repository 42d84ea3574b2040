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

// EmployeeHandler serves the employees table as-is
type EmployeeHandler struct {
	employeeService services.EmployeeService
	logger          *logrus.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService services.EmployeeService, logger *logrus.Logger) *EmployeeHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &EmployeeHandler{employeeService: employeeService, logger: logger}
}

// ListEmployees handles GET /api/employees
// @Summary List employees
// @Description Every column of every employee row, highest first column first
// @Tags employees
// @Produce json
// @Success 200 {object} models.ListResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.employeeService.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.NewListResponse(employees))
}

// HandleList is the Lambda variant of ListEmployees
func (h *EmployeeHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	employees, err := h.employeeService.ListEmployees(ctx)
	if err != nil {
		return lambdaError(ctx, h.logger, req, err)
	}
	return lambda.JSONResponse(http.StatusOK, models.NewListResponse(employees))
}
