package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"holdings-api/internal/config"
	"holdings-api/internal/middleware"
	"holdings-api/pkg/lambda"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type route struct {
	method   string
	segments []string
	handle   lambda.HandlerFunc
}

// Router dispatches Lambda requests to handlers using the same paths as the
// gin engine. Patterns use ":name" segments for path parameters.
type Router struct {
	routes []route
	cors   *middleware.CORSPolicy
	logger *logrus.Logger
}

// NewRouter registers every API route except /metrics and /swagger
func NewRouter(cfg *RouterConfig) *Router {
	r := &Router{
		cors:   cfg.CORS,
		logger: cfg.Logger,
	}
	if r.cors == nil {
		r.cors = middleware.NewCORSPolicy(config.DefaultAllowedOrigins, true)
	}
	if r.logger == nil {
		r.logger = logrus.New()
	}

	h := NewHandlers(cfg)
	r.Handle(http.MethodGet, "/hello", h.Hello.HandleHello)
	r.Handle(http.MethodGet, "/api/health", h.Health.HandleHealth)
	r.Handle(http.MethodGet, "/api/employees", h.Employee.HandleList)
	r.Handle(http.MethodGet, "/holdings", h.Holding.HandleList)
	r.Handle(http.MethodPost, "/holdings", h.Holding.HandleCreate)
	r.Handle(http.MethodGet, "/holdings/:id", h.Holding.HandleGet)
	r.Handle(http.MethodDelete, "/holdings/:id", h.Holding.HandleDelete)
	return r
}

// Handle registers handle for method and pattern
func (r *Router) Handle(method, pattern string, handle lambda.HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPath(pattern),
		handle:   handle,
	})
}

// Dispatch routes req and decorates the response with request id and CORS
// headers. Handler failures become a 500 response, never an error, so API
// Gateway always gets a well-formed reply.
func (r *Router) Dispatch(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	start := time.Now()

	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	requestID := req.Header("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		req.Headers["X-Request-ID"] = requestID
	}

	var resp *lambda.Response
	if req.Method == http.MethodOptions {
		resp = lambda.EmptyResponse(http.StatusNoContent)
	} else {
		resp = r.serve(ctx, req, requestID)
	}

	resp.SetHeader("X-Request-ID", requestID)
	for k, v := range r.cors.Headers(req.Header("Origin")) {
		resp.SetHeader(k, v)
	}

	r.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      req.Method,
		"path":        req.Path,
		"status_code": resp.StatusCode,
		"latency_ms":  float64(time.Since(start).Nanoseconds()) / 1000000,
	}).Info("HTTP Request")

	return resp, nil
}

func (r *Router) serve(ctx context.Context, req *lambda.Request, requestID string) *lambda.Response {
	path := splitPath(req.Path)

	var allowed []string
	for _, rt := range r.routes {
		params, ok := matchSegments(rt.segments, path)
		if !ok {
			continue
		}
		if rt.method != req.Method {
			allowed = append(allowed, rt.method)
			continue
		}

		if req.PathParams == nil {
			req.PathParams = map[string]string{}
		}
		for k, v := range params {
			req.PathParams[k] = v
		}

		resp, err := rt.handle(ctx, req)
		if err != nil || resp == nil {
			r.logger.WithError(err).WithField("request_id", requestID).Error("Lambda handler failed")
			return r.failure(http.StatusInternalServerError, requestID, "Internal server error", "An internal error occurred")
		}
		return resp
	}

	if len(allowed) > 0 {
		sort.Strings(allowed)
		resp := r.failure(http.StatusMethodNotAllowed, requestID, "Method not allowed",
			req.Method+" is not supported on "+req.Path)
		resp.SetHeader("Allow", strings.Join(allowed, ", "))
		return resp
	}
	return r.failure(http.StatusNotFound, requestID, "Not found", "no route for "+req.Method+" "+req.Path)
}

func (r *Router) failure(status int, requestID, title, message string) *lambda.Response {
	resp, err := lambda.JSONResponse(status, middleware.NewErrorResponse(requestID, title, message))
	if err != nil {
		resp = lambda.EmptyResponse(status)
	}
	return resp
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			params[seg[1:]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}
