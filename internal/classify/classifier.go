// internal/classify/classifier.go

// Package classify assigns one of the closed document categories to an
// uploaded page image using the vision model. Failures never escape this
// boundary: a broken model call degrades to category unknown, confidence 0.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"housing-intake/internal/common/logger"
	"housing-intake/internal/models"
	"housing-intake/internal/vision"
)

// firstPageShortCircuit is the first-page confidence at or above which
// multi-page inputs skip classifying further pages.
const firstPageShortCircuit = 0.85

// maxPagesClassified caps how many pages of a multi-page input are classified.
const maxPagesClassified = 3

// alternativeScoreCutoff is the strict lower bound for a summed category score
// to surface as an alternative during multi-page aggregation.
const alternativeScoreCutoff = 0.3

// maxAlternatives caps alternatives on an aggregated result.
const maxAlternatives = 2

type Classifier struct {
	caller vision.Caller
	log    logger.Logger
}

func New(caller vision.Caller, log logger.Logger) *Classifier {
	return &Classifier{
		caller: caller,
		log:    log.WithFields(map[string]interface{}{"component": "classify"}),
	}
}

// rawResult is the shape the model is asked to return.
type rawResult struct {
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
	Subtype      string  `json:"subtype"`
	Reasoning    string  `json:"reasoning"`
	Alternatives []struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	} `json:"alternativeCategories"`
}

// Classify classifies a single document image. It never returns an error:
// model failures yield {unknown, 0, <failure message>}.
func (c *Classifier) Classify(ctx context.Context, image []byte, mimeType string) models.ClassificationResult {
	content, err := c.caller.Call(ctx, buildPrompt(), image, mimeType)
	if err != nil {
		c.log.Warn("classification degraded to unknown", map[string]interface{}{"error": err.Error()})
		return models.ClassificationResult{
			Category:  models.CategoryUnknown,
			Reasoning: fmt.Sprintf("classification failed: %s", err.Error()),
		}
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		c.log.Warn("unparseable classification response", map[string]interface{}{"error": err.Error()})
		return models.ClassificationResult{
			Category:  models.CategoryUnknown,
			Reasoning: fmt.Sprintf("classification failed: unparseable response: %s", err.Error()),
		}
	}

	return normalize(raw)
}

// normalize clamps confidences to [0,1], coerces invalid category strings to
// unknown and filters alternatives to the closed enum.
func normalize(raw rawResult) models.ClassificationResult {
	res := models.ClassificationResult{
		Category:   models.ParseCategory(raw.Category),
		Confidence: clamp01(raw.Confidence),
		Subtype:    raw.Subtype,
		Reasoning:  raw.Reasoning,
	}
	for _, alt := range raw.Alternatives {
		if !models.IsValidCategory(alt.Category) {
			continue
		}
		res.Alternatives = append(res.Alternatives, models.AlternativeCategory{
			Category:   models.Category(alt.Category),
			Confidence: clamp01(alt.Confidence),
		})
	}
	return res
}

func buildPrompt() string {
	labels := make([]string, 0, len(models.AllCategories))
	for _, c := range models.AllCategories {
		labels = append(labels, string(c))
	}
	return strings.Join([]string{
		"Classify this document for a social-housing application.",
		"Allowed categories (choose exactly one): " + strings.Join(labels, ", ") + ".",
		"Respond with a JSON object:",
		`{"category": "<category>", "confidence": <0..1>, "subtype": "<optional finer label>", "reasoning": "<one sentence>",`,
		`"alternativeCategories": [{"category": "<category>", "confidence": <0..1>}]}`,
		"Use \"unknown\" if the document is unreadable or does not match any category.",
	}, "\n")
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
