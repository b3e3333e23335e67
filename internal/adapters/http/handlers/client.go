package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
)

// Greeter starts a downstream greeting call.
type Greeter interface {
	Greet(ctx context.Context) *async.Future[string]
}

// ClientHandler exposes the downstream hello service.
type ClientHandler struct {
	greeter Greeter
}

// NewClientHandler creates a new client handler.
func NewClientHandler(greeter Greeter) *ClientHandler {
	return &ClientHandler{greeter: greeter}
}

// Hello handles GET /ft/client.
func (h *ClientHandler) Hello(c *gin.Context) {
	ctx := c.Request.Context()

	greeting, err := h.greeter.Greet(ctx).Await(ctx)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GreetingResponse{Greeting: greeting})
}

// RegisterClientRoutes registers the /ft routes on rg.
func (h *ClientHandler) RegisterClientRoutes(rg *gin.RouterGroup) {
	rg.Group("/ft").GET("/client", h.Hello)
}
