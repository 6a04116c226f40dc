package template

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
)

// Load parses and validates one report definition. Any parse or validation
// failure yields apperr.ErrSchemaInvalid; no partial schema is ever returned.
// Sections come back sorted ascending by their order value.
func Load(data []byte) (*Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("template: parse: %v: %w", err, apperr.ErrSchemaInvalid)
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("template: %v: %w", err, apperr.ErrSchemaInvalid)
	}
	sort.SliceStable(schema.Sections, func(i, j int) bool {
		return schema.Sections[i].Order < schema.Sections[j].Order
	})
	return &schema, nil
}
