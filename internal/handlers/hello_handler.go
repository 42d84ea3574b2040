package handlers

import (
	"context"
	"net/http"

	"holdings-api/internal/services"
	"holdings-api/pkg/lambda"

	"github.com/gin-gonic/gin"
)

// HelloHandler answers the greeting endpoint
type HelloHandler struct {
	greetingService services.GreetingService
}

// NewHelloHandler creates a new hello handler
func NewHelloHandler(greetingService services.GreetingService) *HelloHandler {
	return &HelloHandler{greetingService: greetingService}
}

// Hello handles GET /hello
// @Summary Greeting
// @Tags hello
// @Produce json
// @Param name query string false "Name to greet"
// @Success 200 {object} models.Greeting
// @Router /hello [get]
func (h *HelloHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, h.greetingService.Greet(c.Query("name")))
}

// HandleHello is the Lambda variant of Hello
func (h *HelloHandler) HandleHello(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return lambda.JSONResponse(http.StatusOK, h.greetingService.Greet(req.Query("name")))
}
