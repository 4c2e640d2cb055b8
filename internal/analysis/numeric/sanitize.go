package numeric

import "math"

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round rounds half away from zero to the given number of places.
func Round(v float64, places int) float64 {
	if !Finite(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Safe rounds v and returns nil for NaN or infinity. Every engine passes
// outgoing floats through Safe or Safe4.
func Safe(v float64) *float64 {
	return SafeN(v, 2)
}

// Safe4 is Safe at four decimal places, used by gap statistics.
func Safe4(v float64) *float64 {
	return SafeN(v, 4)
}

func SafeN(v float64, places int) *float64 {
	if !Finite(v) {
		return nil
	}
	r := Round(v, places)
	return &r
}

// OrZero reads a nullable number as zero.
func OrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
