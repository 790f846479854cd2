package calculator

import "math"

// CalculateTheta computes the phase angle of the last price move in
// degrees: atan2(delta, previous price), so the sign follows the move
// direction and the magnitude reflects the move size relative to the
// price level. Always in (-180, 180]. Returns 0 for fewer than 2 prices.
//
// A previous price of 0 yields ±90 by atan2 convention, not an error.
func CalculateTheta(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	current := prices[len(prices)-1]
	previous := prices[len(prices)-2]
	delta := current - previous

	thetaRad := math.Atan2(delta, previous)
	return round2(thetaRad * 180 / math.Pi)
}
