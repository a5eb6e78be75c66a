package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EvaluationResult is the outcome of inspecting a route list.
type EvaluationResult struct {
	Candidates     []RouteCandidate
	AlarmTriggered bool
}

// Best returns the first candidate, which the aggregator ranks highest.
func (e EvaluationResult) Best() (RouteCandidate, bool) {
	if len(e.Candidates) == 0 {
		return RouteCandidate{}, false
	}
	return e.Candidates[0], true
}

// Evaluate raises the alarm when the best route's price impact, in
// percent, is at most 100 minus thresholdPercent. Only candidates[0] is
// considered and the list is never reordered. The threshold is not
// range checked.
func Evaluate(candidates []RouteCandidate, thresholdPercent decimal.Decimal) EvaluationResult {
	result := EvaluationResult{Candidates: candidates}
	if len(candidates) == 0 {
		return result
	}

	impactPercent := candidates[0].PriceImpact.Mul(hundred)
	result.AlarmTriggered = impactPercent.LessThanOrEqual(hundred.Sub(thresholdPercent))
	return result
}
