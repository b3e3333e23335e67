package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/reqscope-service/internal/domain"
	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
)

// ContentTypeNDJSON is the media type of streamed model listings.
const ContentTypeNDJSON = "application/x-ndjson"

// ModelService is the application behavior the model endpoints need.
type ModelService interface {
	Echo(ctx context.Context, body []byte) (*domain.Model, error)
	Create(ctx context.Context, m *domain.Model) (*domain.Model, error)
	CreateBatch(ctx context.Context, models []*domain.Model) ([]*domain.Model, error)
	Lookup(id string) async.Single[*domain.Model]
	Stream(count int) async.Stream[*domain.Model]
}

// ModelHandler handles model endpoints.
type ModelHandler struct {
	service ModelService
}

// NewModelHandler creates a new model handler.
func NewModelHandler(service ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

// Echo handles POST /modelwithbuilder.
// The body is decoded through the model builder and echoed back with 201.
func (h *ModelHandler) Echo(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		dto.AbortWithErrorCode(c, dto.ErrorCodeBadRequest, "request body could not be read")
		return
	}

	m, err := h.service.Echo(c.Request.Context(), body)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewModelResponse(m))
}

// Create handles POST /api/v1/models.
func (h *ModelHandler) Create(c *gin.Context) {
	var req dto.ModelRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	m, err := req.ToDomain()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	saved, err := h.service.Create(c.Request.Context(), m)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewModelResponse(saved))
}

// CreateBatch handles POST /api/v1/models/batch.
// Either every model is stored or none is.
func (h *ModelHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	models, err := req.ToDomain()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	saved, err := h.service.CreateBatch(c.Request.Context(), models)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewBatchResponse(saved))
}

// Get handles GET /api/v1/models/:id.
func (h *ModelHandler) Get(c *gin.Context) {
	m, err := h.service.Lookup(c.Param("id")).Await(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewModelResponse(m))
}

// Stream handles GET /api/v1/models/stream?count=n.
// Models are written as newline-delimited JSON, flushed one by one. A failure
// before the first model gets the usual error envelope; a later one ends the
// response early.
func (h *ModelHandler) Stream(c *gin.Context) {
	var q dto.StreamQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	enc := json.NewEncoder(c.Writer)
	sent := 0

	err := h.service.Stream(q.GetCount()).Subscribe(ctx, func(m *domain.Model) error {
		if sent == 0 {
			c.Header("Content-Type", ContentTypeNDJSON)
			c.Status(http.StatusOK)
		}

		if err := enc.Encode(dto.NewModelResponse(m)); err != nil {
			return err
		}

		sent++
		c.Writer.Flush()

		return nil
	})

	switch {
	case err != nil && sent == 0:
		dto.HandleError(c, err)
	case err != nil:
		logging.FromContext(ctx).WarnContext(ctx, "model stream ended early",
			slog.Int("sent", sent),
			slog.Any("error", err),
		)
		c.Abort()
	case sent == 0:
		c.Data(http.StatusOK, ContentTypeNDJSON, nil)
	}
}

// RegisterModelRoutes registers the versioned model routes on rg.
func (h *ModelHandler) RegisterModelRoutes(rg *gin.RouterGroup) {
	models := rg.Group("/models")
	models.POST("", h.Create)
	models.POST("/batch", h.CreateBatch)
	models.GET("/stream", h.Stream)
	models.GET("/:id", h.Get)
}

// RegisterEchoRoute registers POST /modelwithbuilder on rg.
func (h *ModelHandler) RegisterEchoRoute(rg *gin.RouterGroup) {
	rg.POST("/modelwithbuilder", h.Echo)
}
