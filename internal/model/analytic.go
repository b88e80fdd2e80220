package model

import "math"

// AnalyticSlope is B in v(k) = A + B ln k.
func (p Params) AnalyticSlope() float64 {
	return p.Alpha / (1 - p.Alpha*p.Beta)
}

// AnalyticIntercept is A in v(k) = A + B ln k. Its leading term is
// ln(1-alpha*beta)/(1-beta); the second term carries the savings share.
func (p Params) AnalyticIntercept() float64 {
	ab := p.Alpha * p.Beta
	return (math.Log(1-ab) + ab/(1-ab)*math.Log(ab)) / (1 - p.Beta)
}

// AnalyticValue is the exact value function for log utility, k^alpha output
// and full depreciation.
func (p Params) AnalyticValue(k float64) float64 {
	return p.AnalyticIntercept() + p.AnalyticSlope()*math.Log(k)
}

// AnalyticPolicy is the exact savings rule k' = alpha*beta*k^alpha.
func (p Params) AnalyticPolicy(k float64) float64 {
	return p.Alpha * p.Beta * p.Output(k)
}
