package utils

// ClampBelow returns floor when val < floor, reporting whether it clamped
func ClampBelow(val, floor float64) (clamped float64, wasClamped bool) {
	if val < floor {
		return floor, true
	}
	return val, false
}

// InRange checks lo <= val <= hi, NaN is never in range
func InRange(val, lo, hi float64) bool {
	return val >= lo && val <= hi
}
