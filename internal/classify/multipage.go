// internal/classify/multipage.go
package classify

import (
	"context"
	"sort"

	"housing-intake/internal/models"
)

// ClassifyMultiPage classifies a multi-page document. The first page decides
// alone when it is confident enough; otherwise up to two more pages are
// classified and the per-page results aggregated.
func (c *Classifier) ClassifyMultiPage(ctx context.Context, pages [][]byte, mimeType string) models.ClassificationResult {
	if len(pages) == 0 {
		return models.ClassificationResult{
			Category:  models.CategoryUnknown,
			Reasoning: "no pages supplied",
		}
	}

	first := c.Classify(ctx, pages[0], mimeType)
	if len(pages) == 1 || first.Confidence >= firstPageShortCircuit {
		return first
	}

	results := []models.ClassificationResult{first}
	for i := 1; i < len(pages) && i < maxPagesClassified; i++ {
		results = append(results, c.Classify(ctx, pages[i], mimeType))
	}

	return Aggregate(results)
}

// Aggregate combines per-page classifications: confidence is summed per
// category, the highest summed score wins (ties broken by enum declaration
// order), and the final confidence is the mean confidence of the pages that
// agreed with the winner.
func Aggregate(results []models.ClassificationResult) models.ClassificationResult {
	if len(results) == 0 {
		return models.ClassificationResult{
			Category:  models.CategoryUnknown,
			Reasoning: "no pages supplied",
		}
	}

	summed := make(map[models.Category]float64)
	for _, r := range results {
		summed[r.Category] += r.Confidence
	}

	// First match in declaration order wins on ties.
	winner := models.CategoryUnknown
	best := -1.0
	for _, cat := range models.AllCategories {
		if score, ok := summed[cat]; ok && score > best {
			winner = cat
			best = score
		}
	}

	var (
		agreeing  int
		confSum   float64
		subtype   string
		reasoning string
	)
	// Subtype and reasoning come from the single highest-confidence agreeing
	// page, taken verbatim; earlier pages win ties.
	topConf := -1.0
	for _, r := range results {
		if r.Category != winner {
			continue
		}
		agreeing++
		confSum += r.Confidence
		if r.Confidence > topConf {
			subtype = r.Subtype
			reasoning = r.Reasoning
			topConf = r.Confidence
		}
	}

	confidence := 0.0
	if agreeing > 0 {
		confidence = confSum / float64(agreeing)
	}

	var alts []models.AlternativeCategory
	for cat, score := range summed {
		if cat == winner || score <= alternativeScoreCutoff {
			continue
		}
		alts = append(alts, models.AlternativeCategory{Category: cat, Confidence: score})
	}
	sort.Slice(alts, func(i, j int) bool { return alts[i].Confidence > alts[j].Confidence })
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}

	return models.ClassificationResult{
		Category:     winner,
		Confidence:   confidence,
		Subtype:      subtype,
		Reasoning:    reasoning,
		Alternatives: alts,
	}
}
