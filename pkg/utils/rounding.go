// Package utils provides small shared helpers.
package utils

import "math"

// Round4 rounds to 4 decimal places, the precision of every published
// score, aggregate, and drift value.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
