// internal/extract/extractor.go

// Package extract pulls structured fields out of a classified document with a
// category-specific prompt, then scores the result against the category's
// required fields. Like classification, failures degrade to a typed result.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"housing-intake/internal/common/logger"
	"housing-intake/internal/models"
	"housing-intake/internal/schema"
	"housing-intake/internal/vision"

	"github.com/xeipuuv/gojsonschema"
)

// defaultSelfReportedConfidence is assumed when the model returns a shaped
// field object without a confidence.
const defaultSelfReportedConfidence = 0.5

// assumedScalarConfidence is assigned to bare scalar values the model did not
// wrap in a {value, confidence} object.
const assumedScalarConfidence = 0.7

type Extractor struct {
	registry  *schema.Registry
	caller    vision.Caller
	modelID   string
	threshold float64
	log       logger.Logger
}

func New(registry *schema.Registry, caller vision.Caller, modelID string, threshold float64, log logger.Logger) *Extractor {
	return &Extractor{
		registry:  registry,
		caller:    caller,
		modelID:   modelID,
		threshold: threshold,
		log:       log.WithFields(map[string]interface{}{"component": "extract"}),
	}
}

// ModelID identifies the model recorded on extraction versions.
func (e *Extractor) ModelID() string {
	return e.modelID
}

// SchemaVersion returns the current schema version used for a category.
func (e *Extractor) SchemaVersion(category models.Category) string {
	if sv := e.registry.CurrentSchema(category); sv != nil {
		return sv.Version
	}
	return ""
}

// Extract runs one extraction for a document already classified as category.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string, category models.Category) models.ExtractionResult {
	sv := e.registry.CurrentSchema(category)
	if sv == nil || len(sv.Fields) == 0 {
		// Catch-all categories have no structured fields to extract.
		return models.ExtractionResult{
			Success:           true,
			DocumentType:      category,
			Fields:            models.ExtractedData{},
			CompletenessScore: 100,
		}
	}

	content, err := e.caller.Call(ctx, buildPrompt(category, sv), image, mimeType)
	if err != nil {
		return failureResult(category, err.Error())
	}

	raw, err := parseResponse(sv, content)
	if err != nil {
		e.log.Warn("extraction response rejected", map[string]interface{}{
			"category": string(category),
			"error":    err.Error(),
		})
		return failureResult(category, err.Error())
	}

	rawText := ""
	if t, ok := raw["_rawText"].(string); ok {
		rawText = t
		delete(raw, "_rawText")
	}

	fields := NormalizeFields(raw)
	score, issues := ScoreCompleteness(fields, sv.Required, e.threshold)

	return models.ExtractionResult{
		Success:           true,
		DocumentType:      category,
		Fields:            fields,
		CompletenessScore: score,
		Issues:            issues,
		RawText:           rawText,
	}
}

// parseResponse validates the model output is a JSON object whose shaped
// fields carry sane confidences, then decodes it.
func parseResponse(sv *schema.SchemaVersion, content string) (map[string]interface{}, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(responseSchema(sv)),
		gojsonschema.NewStringLoader(content),
	)
	if err != nil {
		return nil, fmt.Errorf("extraction response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("extraction response failed schema validation: %s", strings.Join(msgs, "; "))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return raw, nil
}

// responseSchema builds the JSON schema the model response must satisfy:
// a top-level object whose values are scalars or {value, confidence} objects.
func responseSchema(sv *schema.SchemaVersion) map[string]interface{} {
	fieldShape := map[string]interface{}{
		"oneOf": []interface{}{
			map[string]interface{}{"type": []interface{}{"string", "number", "boolean", "null"}},
			map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"value"},
				"properties": map[string]interface{}{
					"value":      map[string]interface{}{},
					// Out-of-range confidences are clamped during
					// normalization rather than rejected here.
					"confidence": map[string]interface{}{"type": "number"},
					"source":     map[string]interface{}{"type": "string"},
					"issues":     map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
				},
			},
		},
	}

	properties := map[string]interface{}{
		"_rawText": map[string]interface{}{"type": "string"},
	}
	for name := range sv.Fields {
		properties[name] = fieldShape
	}

	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": fieldShape,
	}
}

func buildPrompt(category models.Category, sv *schema.SchemaVersion) string {
	names := make([]string, 0, len(sv.Fields))
	for name := range sv.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Extract the following fields from this %s document for a social-housing application.\n", strings.ReplaceAll(string(category), "_", " "))
	b.WriteString("Fields:\n")
	for _, name := range names {
		spec := sv.Fields[name]
		fmt.Fprintf(&b, "- %s (%s): %s\n", name, spec.Type, spec.Description)
	}
	if len(sv.Required) > 0 {
		fmt.Fprintf(&b, "Required fields: %s.\n", strings.Join(sv.Required, ", "))
	}
	b.WriteString("Respond with a single JSON object keyed by field name. For each field return\n")
	b.WriteString(`{"value": <extracted value>, "confidence": <0..1>, "source": "<where on the document>"}.` + "\n")
	b.WriteString("Use ISO-8601 (YYYY-MM-DD) for dates. Set value to null when a field is not present.\n")
	b.WriteString(`Optionally include "_rawText" with the visible text of the document.`)
	return b.String()
}

func failureResult(category models.Category, message string) models.ExtractionResult {
	return models.ExtractionResult{
		Success:           false,
		DocumentType:      category,
		Fields:            models.ExtractedData{},
		CompletenessScore: 0,
		Issues: []models.Issue{
			{Field: "_general", Severity: models.SeverityError, Message: message},
		},
	}
}
