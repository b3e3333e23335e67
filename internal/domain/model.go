package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Model is a versioned value echoed and stored by the service.
type Model struct {
	ID      string   `json:"id"`
	Version int      `json:"version"`
	Value   string   `json:"value"`
	Tags    []string `json:"tags,omitempty"`
}

// ModelBuilder assembles a Model and checks its invariants on Build.
// The zero value is ready to use.
type ModelBuilder struct {
	m Model
}

// NewModelBuilder starts a builder.
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{}
}

// WithID sets the identifier.
func (b *ModelBuilder) WithID(id string) *ModelBuilder {
	b.m.ID = strings.TrimSpace(id)
	return b
}

// WithVersion sets the version.
func (b *ModelBuilder) WithVersion(v int) *ModelBuilder {
	b.m.Version = v
	return b
}

// WithValue sets the payload.
func (b *ModelBuilder) WithValue(v string) *ModelBuilder {
	b.m.Value = v
	return b
}

// WithTags appends tags, dropping blanks and duplicates.
func (b *ModelBuilder) WithTags(tags ...string) *ModelBuilder {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(b.m.Tags, t) {
			b.m.Tags = append(b.m.Tags, t)
		}
	}

	return b
}

// Build returns the model or a *ValidationError listing every violation.
func (b *ModelBuilder) Build() (*Model, error) {
	var violations []FieldViolation

	if b.m.ID == "" {
		violations = append(violations, FieldViolation{Field: "id", Message: "is required"})
	}

	if b.m.Version < 0 {
		violations = append(violations, FieldViolation{Field: "version", Message: "must not be negative"})
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	m := b.m
	m.Tags = slices.Clone(b.m.Tags)

	return &m, nil
}

// ModelFromJSON decodes body through the builder.
func ModelFromJSON(body []byte) (*Model, error) {
	var raw Model
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewValidationError("body", fmt.Sprintf("malformed JSON: %v", err))
	}

	return NewModelBuilder().
		WithID(raw.ID).
		WithVersion(raw.Version).
		WithValue(raw.Value).
		WithTags(raw.Tags...).
		Build()
}

// ToJSON encodes the model.
func (m *Model) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NextVersion returns a copy with the version bumped.
func (m *Model) NextVersion() *Model {
	next := *m
	next.Version++
	next.Tags = slices.Clone(m.Tags)

	return &next
}
