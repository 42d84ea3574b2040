package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	corsAllowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders  = "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID, X-Correlation-ID, Authorization"
	corsExposeHeaders = "Content-Length, X-Request-ID, X-Correlation-ID"
)

// CORSPolicy decides which browser origins may call the API. It is shared by
// the gin middleware and the Lambda handler.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// NewCORSPolicy creates a policy; "*" in origins allows any origin
func NewCORSPolicy(origins []string, allowCredentials bool) *CORSPolicy {
	cleaned := lo.Map(origins, func(o string, _ int) string {
		return strings.TrimRight(strings.TrimSpace(o), "/")
	})
	cleaned = lo.Filter(cleaned, func(o string, _ int) bool { return o != "" })
	return &CORSPolicy{
		AllowedOrigins:   lo.Uniq(cleaned),
		AllowCredentials: allowCredentials,
	}
}

// Allowed reports whether origin may make cross-origin requests
func (p *CORSPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	return lo.Contains(p.AllowedOrigins, "*") || lo.Contains(p.AllowedOrigins, origin)
}

// Headers returns the CORS response headers for a request from origin. It is
// empty when the origin is not allowed. The origin is echoed back rather than
// answered with "*" because browsers reject a wildcard on credentialed
// requests.
func (p *CORSPolicy) Headers(origin string) map[string]string {
	if !p.Allowed(origin) {
		return map[string]string{}
	}

	headers := map[string]string{
		"Access-Control-Allow-Origin":   origin,
		"Access-Control-Allow-Methods":  corsAllowMethods,
		"Access-Control-Allow-Headers":  corsAllowHeaders,
		"Access-Control-Expose-Headers": corsExposeHeaders,
		"Vary":                          "Origin",
	}
	if p.AllowCredentials {
		headers["Access-Control-Allow-Credentials"] = "true"
	}
	return headers
}

// CORS middleware for handling Cross-Origin Resource Sharing
func CORS(policy *CORSPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range policy.Headers(c.GetHeader("Origin")) {
			c.Header(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ErrorHandler middleware for centralized error handling. It only answers for
// errors a handler attached without writing a response itself; handlers that
// already wrote one have done their own logging.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		})

		if c.Writer.Written() {
			entry.WithField("status_code", c.Writer.Status()).Debug("Request error already answered")
			return
		}

		response := ErrorResponse{
			RequestID: c.GetString(RequestIDKey),
			Timestamp: time.Now().Format(time.RFC3339),
		}

		switch err.Type {
		case gin.ErrorTypeBind:
			response.Error = "Invalid request format"
			response.Message = err.Error()
			response.ValidationErrors = NewValidationErrors(err.Err)
			entry.Warn("Request error")
			c.JSON(http.StatusBadRequest, response)
		case gin.ErrorTypePublic:
			response.Error = "Request failed"
			response.Message = err.Error()
			entry.Warn("Request error")
			c.JSON(http.StatusBadRequest, response)
		default:
			response.Error = "Internal server error"
			response.Message = "An internal error occurred"
			entry.Error("Request error")
			c.JSON(http.StatusInternalServerError, response)
		}
	}
}
