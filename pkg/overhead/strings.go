package overhead

const (
	// stringFloor is the minimum string multiplier for either format.
	stringFloor = 1.1
	// columnarStringCap bounds the columnar curve for pathologically short
	// strings.
	columnarStringCap = 3.0
)

// CSVStringOverhead returns the multiplier for CSV string columns given
// the pooled average string byte length. Per-string delimiter and quoting
// overhead is proportionally larger for short strings, so the multiplier
// decreases step-wise with length and bottoms out at the floor.
//
// A zero or negative average is treated as the shortest-length bucket.
func CSVStringOverhead(avgLen float64) float64 {
	switch {
	case avgLen <= 1:
		return 2.0
	case avgLen <= 5:
		return 1.8
	case avgLen <= 10:
		return 1.6
	case avgLen <= 20:
		return 1.4
	case avgLen <= 50:
		return 1.25
	default:
		return stringFloor
	}
}

// ColumnarStringOverhead returns the multiplier for columnar string
// columns: 1.0 + factor/avgLen, clamped to [floor, cap]. Dictionary and
// length-prefix overhead is fixed per value, so encoded strings approach
// their raw footprint as the average length grows.
//
// A zero or negative average returns the cap, the maximally conservative
// value for pathologically short strings.
func ColumnarStringOverhead(avgLen, factor float64) float64 {
	if avgLen <= 0 {
		return columnarStringCap
	}

	m := 1.0 + factor/avgLen
	if m > columnarStringCap {
		return columnarStringCap
	}
	if m < stringFloor {
		return stringFloor
	}
	return m
}
