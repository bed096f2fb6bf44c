// internal/extract/normalize.go
package extract

import (
	"fmt"
	"math"
	"sort"

	"housing-intake/internal/models"
)

// NormalizeFields converts raw decoded JSON values into ExtractedFields.
// The rules, per raw value:
//   - nil -> {value: nil, confidence: 0}
//   - an object shaped like {value, confidence, source?, issues?} -> confidence
//     clamped to [0,1], defaulting to 0.5 when the model did not report one
//   - any other scalar -> {value: scalar, confidence: 0.7}
func NormalizeFields(raw map[string]interface{}) models.ExtractedData {
	out := make(models.ExtractedData, len(raw))
	for name, v := range raw {
		out[name] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) models.ExtractedField {
	if v == nil {
		return models.ExtractedField{Value: nil, Confidence: 0}
	}

	if m, ok := v.(map[string]interface{}); ok {
		if _, hasValue := m["value"]; hasValue {
			f := models.ExtractedField{Value: m["value"], Confidence: defaultSelfReportedConfidence}
			if c, ok := m["confidence"].(float64); ok {
				f.Confidence = clamp01(c)
			}
			if s, ok := m["source"].(string); ok {
				f.Source = s
			}
			if rawIssues, ok := m["issues"].([]interface{}); ok {
				for _, ri := range rawIssues {
					if s, ok := ri.(string); ok {
						f.Issues = append(f.Issues, s)
					}
				}
			}
			return f
		}
	}

	return models.ExtractedField{Value: v, Confidence: assumedScalarConfidence}
}

// ScoreCompleteness awards, per required field: 1 point when present with
// confidence at or above threshold, 0.5 when present below threshold, 0 when
// missing. Score is round(100 * points / len(required)); no required fields
// means 100. Field-level issues surface as additional warnings.
func ScoreCompleteness(fields models.ExtractedData, required []string, threshold float64) (int, []models.Issue) {
	var issues []models.Issue

	// Field names sorted so repeated runs log warnings in a stable order.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := fields[name]
		for _, msg := range f.Issues {
			issues = append(issues, models.Issue{
				Field:    name,
				Severity: models.SeverityWarning,
				Message:  msg,
			})
		}
	}

	if len(required) == 0 {
		return 100, issues
	}

	points := 0.0
	for _, name := range required {
		f, ok := fields[name]
		if !ok || !present(f.Value) {
			issues = append(issues, models.Issue{
				Field:    name,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("required field %q was not found", name),
			})
			continue
		}
		if f.Confidence >= threshold {
			points++
			continue
		}
		points += 0.5
		issues = append(issues, models.Issue{
			Field:      name,
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("field %q was extracted with low confidence (%.2f)", name, f.Confidence),
			Suggestion: fmt.Sprintf("Check the document and confirm the value of %q manually.", name),
		})
	}

	score := int(math.Round(100 * points / float64(len(required))))
	return score, issues
}

func present(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
