package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"

	"holdings-api/internal/handlers"
	"holdings-api/internal/middleware"
	"holdings-api/pkg/lambda"
	"holdings-api/pkg/server"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var (
	router    *handlers.Router
	routerFor *server.Container
	routerMu  sync.Mutex
)

// getRouter returns the router for the live container, rebuilding it when the
// connection manager has replaced the container.
func getRouter(ctx context.Context) (*handlers.Router, error) {
	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return nil, err
	}

	routerMu.Lock()
	defer routerMu.Unlock()
	if router == nil || routerFor != container {
		cors := middleware.NewCORSPolicy(container.Config.CORS.AllowedOrigins, container.Config.CORS.AllowCredentials)
		router = handlers.NewRouter(handlers.NewRouterConfig(container.Services(), cors, container.Logger))
		routerFor = container
	}
	return router, nil
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r, err := getRouter(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize container")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error": "Internal server error", "message": "service is not available"}`,
		}, nil
	}

	req, err := toRequest(event)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error": "Invalid request body", "message": "body is not valid base64"}`,
		}, nil
	}

	resp, err := r.Dispatch(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error": "Internal server error"}`,
		}, nil
	}
	return toProxyResponse(resp), nil
}

// toRequest converts an API Gateway event to a generic request
func toRequest(event events.APIGatewayProxyRequest) (*lambda.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	return &lambda.Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

func toProxyResponse(resp *lambda.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}

func main() {
	awslambda.Start(handler)
}
