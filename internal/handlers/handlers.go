package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"holdings-api/internal/middleware"
	"holdings-api/internal/repositories"
	"holdings-api/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Holding  *HoldingHandler
	Employee *EmployeeHandler
	Health   *HealthHandler
	Hello    *HelloHandler
}

// NewHandlers builds all handlers from the router configuration
func NewHandlers(config *RouterConfig) *Handlers {
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &Handlers{
		Holding:  NewHoldingHandler(config.HoldingService, logger),
		Employee: NewEmployeeHandler(config.EmployeeService, logger),
		Health:   NewHealthHandler(config.HealthService, logger),
		Hello:    NewHelloHandler(config.GreetingService),
	}
}

// decodeObject reads a JSON object, keeping numbers as json.Number so large
// integers survive untouched until the schema coerces them.
func decodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		return nil, invalidBody(err)
	}
	if input == nil {
		input = map[string]any{}
	}
	return input, nil
}

func parseID(entity, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, repositories.InvalidIDError(entity, raw)
	}
	return id, nil
}

// respondError writes the mapped error and records it on the context for the
// error and audit middleware.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status, body := errorResponse(err, c.GetString(middleware.RequestIDKey))
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("request_id", body.RequestID).Error("Request failed")
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

// lambdaError is the Lambda counterpart of respondError
func lambdaError(ctx context.Context, logger *logrus.Logger, req *lambda.Request, err error) (*lambda.Response, error) {
	requestID := req.Header("X-Request-ID")
	status, body := errorResponse(err, requestID)
	if status >= http.StatusInternalServerError {
		logger.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     req.Method,
			"path":       req.Path,
		}).Error("Request failed")
	}
	return lambda.JSONResponse(status, body)
}

func bodyReader(req *lambda.Request) io.Reader {
	return bytes.NewReader(req.Body)
}
