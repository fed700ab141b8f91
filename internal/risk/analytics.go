package risk

import (
	"math"
	"math/rand"
	"strings"

	"github.com/david/riskwatch/internal/models"
)

// cleanPhrases short-circuit category scoring to the floor: any of these in a
// category text means the model found nothing adverse.
var cleanPhrases = []string{
	"no significant adverse",
	"no adverse findings",
	"no records identified",
	"no data available",
	"none identified",
	"not identified in public sources",
}

// adverseKeywords each add 1.5 to a category score. Substring matching is
// intentional ("fine" also catches "fined", "fines"), each keyword counts at
// most once.
var adverseKeywords = []string{
	"convicted",
	"sanctioned",
	"fraud",
	"fine",
	"lawsuit",
	"investigation",
	"penalty",
	"corruption",
	"bribery",
	"laundering",
	"indicted",
	"embezzlement",
}

// ComputeAnalytics derives the presentation metrics for one report: five
// category sub-scores, the severity/likelihood composites, residual risk and
// a synthetic trend series of trendDays samples. Pure except for rng, which
// feeds only the trend; the series is a chart simulation and takes fresh
// draws on every call. Safe to call concurrently with distinct rng values.
func ComputeAnalytics(report models.EntityRiskReport, trendDays int, rng *rand.Rand) models.DerivedAnalytics {
	cats := models.CategoryScores{
		Sanctions:   scoreCategory(report.Sanctions),
		Litigation:  scoreCategory(report.Litigation),
		Reputation:  scoreCategory(report.Reputation),
		PEPExposure: scoreCategory(report.PEPExposure),
		Compliance:  scoreCategory(report.ComplianceGaps),
	}

	severity := clampFloat((cats.Sanctions*2.5+cats.PEPExposure*2+cats.Litigation*1.5+cats.Compliance)/40*100, 10, 100)
	likelihood := clampFloat((cats.Reputation*2.5+cats.Compliance*2+cats.Litigation)/35*100, 10, 100)

	// Average of the severity-likelihood interaction and the model's own
	// top-level score.
	residual := int(math.Round((severity*likelihood/100 + float64(report.RiskScore)) / 2))

	return models.DerivedAnalytics{
		Categories:   cats,
		Severity:     severity,
		Likelihood:   likelihood,
		ResidualRisk: residual,
		Trend:        trendSeries(float64(residual), trendDays, rng),
	}
}

// scoreCategory rates one category text on [0,10]. A clean-phrase hit pins the
// score at 1; otherwise longer texts and adverse keywords push it up from a
// base of 3, capped at 10.
func scoreCategory(text string) float64 {
	lower := strings.ToLower(text)
	for _, phrase := range cleanPhrases {
		if strings.Contains(lower, phrase) {
			return 1
		}
	}

	score := 3.0
	if len(text) > 100 {
		score += 2
	}
	if len(text) > 300 {
		score += 2
	}
	for _, kw := range adverseKeywords {
		if strings.Contains(lower, kw) {
			score += 1.5
		}
	}
	if score > 10 {
		score = 10
	}
	return score
}

// trendSeries simulates trendDays of residual-risk history for the chart.
// High-risk entities get a noisier line with a rising tail past the 60% mark;
// low-risk entities get a flat, low-noise line. Every sample lands in [5,98].
func trendSeries(residual float64, days int, rng *rand.Rand) []float64 {
	volatility := 5.0
	if residual > 50 {
		volatility = 12.0
	}
	biasStart := int(math.Floor(float64(days) * 0.6))

	series := make([]float64, days)
	for i := range series {
		noise := (rng.Float64() - 0.5) * volatility
		bias := 0.0
		if residual > 60 && i > biasStart {
			bias = float64(i-biasStart) * 0.5 * (30.0 / float64(days))
		}
		series[i] = clampFloat(residual+noise+bias, 5, 98)
	}
	return series
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
