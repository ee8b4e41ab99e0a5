// internal/common/validation/schema.go
package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"apartment-estimator/internal/models"
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        interface{} `json:"type"`
	Description string      `json:"description,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	MaxLength   *int        `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func float(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

// MaxDescriptionLength bounds the optional free-text description.
const MaxDescriptionLength = 20000

// EstimateRequestSchema describes the estimate form. Enumerations come from
// the closed sets in models so the schema and the assembler never disagree.
func EstimateRequestSchema() JSONSchema {
	boolean := Property{Type: "boolean"}
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"location":         {Type: "string", Enum: models.Locations, Description: "municipality"},
			"size_m2":          {Type: "number", Minimum: float(15)},
			"rooms":            {Type: "number", Minimum: float(1)},
			"floor":            {Type: "integer", Minimum: float(-4)},
			"bathrooms":        {Type: []string{"integer", "null"}, Minimum: float(1)},
			"year_built":       {Type: "string", Enum: models.YearBuiltBuckets},
			"condition":        {Type: "string", Enum: models.Labels(models.Conditions)},
			"furnished":        {Type: "string", Enum: models.Labels(models.FurnishedStates)},
			"heating_type":     {Type: "string", Enum: models.Labels(models.HeatingTypes)},
			"has_balcony":      boolean,
			"has_garage":       boolean,
			"has_parking":      boolean,
			"has_elevator":     boolean,
			"is_registered":    {Type: []string{"boolean", "null"}},
			"has_armored_door": boolean,
			"has_view":         {Type: []string{"boolean", "null"}},
			"description":      {Type: []string{"string", "null"}, MaxLength: intp(MaxDescriptionLength)},
		},
		Required: []string{
			"location", "size_m2", "rooms", "floor",
			"year_built", "condition", "furnished", "heating_type",
		},
		AdditionalProperties: false,
	}
}

// Validator checks documents against one compiled schema. It is safe for
// concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator(schema JSONSchema) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// NewEstimateRequestValidator compiles EstimateRequestSchema.
func NewEstimateRequestValidator() (*Validator, error) {
	return NewValidator(EstimateRequestSchema())
}

// ValidateJSON validates a raw JSON document.
func (v *Validator) ValidateJSON(doc []byte) (*ValidationResult, error) {
	return v.validate(gojsonschema.NewBytesLoader(doc))
}

// ValidateInput validates a decoded document such as Zeebe job variables.
func (v *Validator) ValidateInput(input map[string]interface{}) (*ValidationResult, error) {
	return v.validate(gojsonschema.NewGoLoader(input))
}

func (v *Validator) validate(doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := v.schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldOf(e),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Field != errs[j].Field {
			return errs[i].Field < errs[j].Field
		}
		return errs[i].Code < errs[j].Code
	})
	return &ValidationResult{Valid: result.Valid(), Errors: errs}, nil
}

// fieldOf names the offending property; gojsonschema reports missing
// required properties against the parent object.
func fieldOf(e gojsonschema.ResultError) string {
	if e.Type() == "required" || e.Type() == "additional_property_not_allowed" {
		if p, ok := e.Details()["property"].(string); ok {
			return p
		}
	}
	return e.Field()
}

// GetSchemaFromJSON parses JSON schema from string
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
