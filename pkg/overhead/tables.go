// Package overhead converts column statistics into memory-overhead
// multipliers: in-memory bytes per on-disk (or logical) byte, per primitive
// type and per storage format.
//
// Non-string types use static, empirically derived tables. String columns
// dominate overhead variance and get a dynamic multiplier computed from the
// sampled average byte length (see strings.go). A format-specific estimator
// blends both into a single multiplier for a whole schema.
//
// Every multiplier is >= 1.0: an in-memory representation never shrinks
// relative to the logical data.
package overhead

import "github.com/vantle/strata/pkg/profile"

// csvTable maps primitive types to multipliers for delimited text files.
// Text encodings of narrow types are short on disk but widen to fixed-size
// machine words in memory, so narrow types carry the largest multipliers.
var csvTable = map[profile.PrimitiveType]float64{
	profile.TypeInt8:     2.0,
	profile.TypeInt16:    1.8,
	profile.TypeInt32:    1.4,
	profile.TypeInt64:    1.1,
	profile.TypeFloat32:  1.3,
	profile.TypeFloat64:  1.1,
	profile.TypeBoolean:  1.6,
	profile.TypeDatetime: 1.2,
}

// columnarTable maps primitive types to multipliers for columnar files,
// relative to the uncompressed data size recorded in the footer. Fixed
// width types land close to 1:1; bit-packed booleans expand to bytes.
var columnarTable = map[profile.PrimitiveType]float64{
	profile.TypeInt8:     1.1,
	profile.TypeInt16:    1.1,
	profile.TypeInt32:    1.05,
	profile.TypeInt64:    1.0,
	profile.TypeFloat32:  1.05,
	profile.TypeFloat64:  1.0,
	profile.TypeBoolean:  4.0,
	profile.TypeDatetime: 1.1,
}

// lookupCSV returns the static CSV multiplier for a non-string type.
func lookupCSV(t profile.PrimitiveType) (float64, bool) {
	m, ok := csvTable[t]
	return m, ok
}

// lookupColumnar returns the static columnar multiplier for a non-string
// type.
func lookupColumnar(t profile.PrimitiveType) (float64, bool) {
	m, ok := columnarTable[t]
	return m, ok
}
