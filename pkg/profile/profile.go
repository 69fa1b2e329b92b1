// Package profile reads just enough of a tabular file to characterize it:
// row counts and sizes from cheap metadata, and per-column types and string
// widths from a bounded sample. It never materializes the file.
//
// Two readers exist, one per storage format. The CSV reader samples a
// capped number of rows and infers types from the values; the columnar
// reader works from the Parquet footer and only decodes a bounded column
// slice when a string-length sample is needed.
package profile

import (
	"sort"

	"github.com/vantle/strata/pkg/format"
)

// PrimitiveType is the logical type of a column, the granularity at which
// the overhead tables are keyed.
type PrimitiveType string

const (
	TypeInt8     PrimitiveType = "int8"
	TypeInt16    PrimitiveType = "int16"
	TypeInt32    PrimitiveType = "int32"
	TypeInt64    PrimitiveType = "int64"
	TypeFloat32  PrimitiveType = "float32"
	TypeFloat64  PrimitiveType = "float64"
	TypeBoolean  PrimitiveType = "boolean"
	TypeDatetime PrimitiveType = "datetime"
	TypeString   PrimitiveType = "string"
)

// ColumnProfile describes one column as observed in the sample. Derived
// once, never mutated afterward.
type ColumnProfile struct {
	// Name is the column name from the header or schema.
	Name string
	// Type is the inferred logical primitive type.
	Type PrimitiveType
	// AvgStringBytes is the sampled representative byte length for string
	// columns (median over the sample); zero for non-string columns.
	AvgStringBytes float64
	// AvgBytes is the mean on-disk byte width of the column over the
	// sample (CSV) or derived from chunk metadata (columnar).
	AvgBytes float64
}

// FileDescriptor captures cheap file-level facts. Immutable once
// constructed; discarded after the report is produced.
type FileDescriptor struct {
	Path   string
	Format format.Format

	// Rows is the total row count: a cheap count pass for CSV, footer
	// metadata for columnar files.
	Rows int64
	// SizeBytes is the on-disk size of the file.
	SizeBytes int64

	// CompressedBytes is the sum of column chunk compressed sizes
	// (columnar only).
	CompressedBytes int64
	// UncompressedBytes is the decompressed data size: footer totals when
	// recorded, otherwise estimated from CompressedBytes.
	UncompressedBytes int64
	// UncompressedEstimated is true when UncompressedBytes was projected
	// from the compressed size rather than read from metadata.
	UncompressedEstimated bool

	// AvgRowBytes is the mean on-disk byte width of one row over the
	// sample, delimiters included (CSV only).
	AvgRowBytes float64
	// SampledRows is how many data rows the sample actually covered.
	SampledRows int
}

// Profile is the output of the schema and sample reader for one file.
type Profile struct {
	Descriptor FileDescriptor
	Columns    []ColumnProfile
}

// StringColumns returns the number of string columns in the schema.
func (p *Profile) StringColumns() int {
	n := 0
	for _, c := range p.Columns {
		if c.Type == TypeString {
			n++
		}
	}
	return n
}

// MeanStringBytes pools the sampled string widths across all string
// columns (plain mean, no cardinality weighting). ok is false when the
// schema has no string columns.
func (p *Profile) MeanStringBytes() (avg float64, ok bool) {
	sum := 0.0
	n := 0
	for _, c := range p.Columns {
		if c.Type == TypeString {
			sum += c.AvgStringBytes
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// median returns the median of byte lengths, robust to outlier rows.
// Returns 0 for an empty sample.
func median(lengths []int) float64 {
	if len(lengths) == 0 {
		return 0
	}

	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
