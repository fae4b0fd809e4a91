package domain

import (
	"math"
	"strings"
)

// DecodeExponent maps a damage exponent code to its power of ten.
// Recognized codes are case-insensitive: H→2, K→3, M→6, B→9. Every other
// input — blank, digits, "?", "-", "+", unknown letters — decodes to 0,
// meaning the mantissa is already at full scale. Unknown codes are a policy
// choice, not an error: the archive's legacy rows must still contribute.
func DecodeExponent(code string) int {
	switch strings.TrimSpace(code) {
	case "H", "h":
		return 2
	case "K", "k":
		return 3
	case "M", "m":
		return 6
	case "B", "b":
		return 9
	default:
		return 0
	}
}

// DamageValue scales a mantissa by its exponent code into whole dollars.
// float64 holds billion-scale single events and the tens-of-billions sums
// the aggregator produces without loss that matters at reporting precision.
func DamageValue(mantissa float64, code string) float64 {
	return mantissa * math.Pow10(DecodeExponent(code))
}
