package audit

import "math"

// neutralScore stands in for a category that produced no result at
// all. Distinct from the evaluator fallback: that one still ran.
const neutralScore = 50

type gradeThreshold struct {
	Min   int
	Grade Grade
}

// Fixed academic scale, checked top down.
var gradeThresholds = []gradeThreshold{
	{93, GradeAPlus},
	{87, GradeA},
	{80, GradeAMinus},
	{73, GradeB},
	{67, GradeC},
	{60, GradeD},
}

// GradeFor maps a 0-100 score to its letter grade.
func GradeFor(score int) Grade {
	for _, t := range gradeThresholds {
		if score >= t.Min {
			return t.Grade
		}
	}
	return GradeF
}

// ComputeComposite folds per-category results into the weighted
// overall score. Any category the profile weights but the results do
// not cover contributes the neutral score and is flagged in the
// breakdown. Rounding is half-up.
func ComputeComposite(results map[Category]CategoryResult, weights WeightProfile) CompositeScore {
	breakdown := make(map[Category]CategoryWeight, len(weights))
	weightedSum := 0
	for _, category := range Categories() {
		weight, ok := weights[category]
		if !ok || weight <= 0 {
			continue
		}
		entry := CategoryWeight{Weight: weight}
		if result, found := results[category]; found {
			entry.Score = clampScore(result.Score)
		} else {
			entry.Score = neutralScore
			entry.Fallback = true
		}
		breakdown[category] = entry
		weightedSum += entry.Score * weight
	}
	overall := clampScore(roundHalfUp(float64(weightedSum) / 100))
	return CompositeScore{
		Overall:   overall,
		Grade:     GradeFor(overall),
		Breakdown: breakdown,
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
