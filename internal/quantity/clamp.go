package quantity

// Clamp adds delta to current and forces the result into [lo, hi].
// The caller guarantees lo <= hi. A current value that is already out
// of range is still pulled back into range.
func Clamp(current, delta, lo, hi int) int {
	raw := current + delta
	if raw < lo {
		return lo
	}
	if raw > hi {
		return hi
	}
	return raw
}
