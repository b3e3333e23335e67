package dto

import "github.com/jsamuelsen/reqscope-service/internal/domain"

// Limits on model requests.
const (
	MaxBatchSize   = 100
	MaxStreamCount = 1000

	DefaultStreamCount = 20
)

// ModelRequest is the JSON body describing one model.
type ModelRequest struct {
	ID      string   `json:"id"      validate:"required,notblank,max=128"`
	Version int      `json:"version" validate:"gte=0"`
	Value   string   `json:"value"   validate:"max=4096"`
	Tags    []string `json:"tags"    validate:"max=32,dive,max=64"`
}

// ToDomain builds the domain model.
func (r *ModelRequest) ToDomain() (*domain.Model, error) {
	return domain.NewModelBuilder().
		WithID(r.ID).
		WithVersion(r.Version).
		WithValue(r.Value).
		WithTags(r.Tags...).
		Build()
}

// BatchRequest creates several models at once.
type BatchRequest struct {
	Models []ModelRequest `json:"models" validate:"required,min=1,max=100,dive"`
}

// ToDomain builds every model in request order.
func (r *BatchRequest) ToDomain() ([]*domain.Model, error) {
	out := make([]*domain.Model, 0, len(r.Models))

	for i := range r.Models {
		m, err := r.Models[i].ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, nil
}

// StreamQuery holds the stream endpoint's query parameters.
type StreamQuery struct {
	Count int `form:"count" validate:"omitempty,gte=1,lte=1000"`
}

// GetCount returns the requested count with the default applied.
func (q *StreamQuery) GetCount() int {
	if q.Count <= 0 {
		return DefaultStreamCount
	}

	return q.Count
}

// ModelResponse is the JSON representation of a model.
type ModelResponse struct {
	ID      string   `json:"id"`
	Version int      `json:"version"`
	Value   string   `json:"value"`
	Tags    []string `json:"tags,omitempty"`
}

// NewModelResponse converts a domain model.
func NewModelResponse(m *domain.Model) *ModelResponse {
	return &ModelResponse{ID: m.ID, Version: m.Version, Value: m.Value, Tags: m.Tags}
}

// BatchResponse lists the stored models.
type BatchResponse struct {
	Models []*ModelResponse `json:"models"`
}

// NewBatchResponse converts stored models.
func NewBatchResponse(models []*domain.Model) *BatchResponse {
	resp := &BatchResponse{Models: make([]*ModelResponse, 0, len(models))}
	for _, m := range models {
		resp.Models = append(resp.Models, NewModelResponse(m))
	}

	return resp
}

// GreetingResponse carries the downstream greeting.
type GreetingResponse struct {
	Greeting string `json:"greeting"`
}
