// Package money represents monetary amounts as integer centavos to avoid
// floating-point drift across repeated discount computations. Float values
// appear only at the boundary with upstream fiscal documents, where the
// rounding rule is round-half-away-from-zero to 2 decimals.
package money

import (
	"fmt"
	"math"
)

// Centavos is a monetary amount in hundredths of the base currency unit.
type Centavos = int64

// FromFloat converts a decimal currency value (e.g. an NF-e total) into
// centavos, rounding half away from zero.
func FromFloat(value float64) Centavos {
	return int64(math.Round(value * 100))
}

// ToFloat converts centavos back to a decimal value for presentation.
func ToFloat(amount Centavos) float64 {
	return float64(amount) / 100
}

// ApplyBasisPoints computes amount × bp/10000 with half-away-from-zero
// rounding. Used for percentage-of-invoice benefit computation.
func ApplyBasisPoints(amount Centavos, bp int64) Centavos {
	return roundDiv(amount*bp, 10000)
}

// Min returns the smaller of two amounts.
func Min(a, b Centavos) Centavos {
	if a < b {
		return a
	}
	return b
}

// Format renders centavos as a plain decimal string ("1150" → "11.50").
func Format(amount Centavos) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

func roundDiv(n, d int64) int64 {
	if d < 0 {
		n, d = -n, -d
	}
	if n < 0 {
		return -roundDiv(-n, d)
	}
	return (2*n + d) / (2 * d)
}
