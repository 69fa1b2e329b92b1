package estimate

import (
	json "github.com/goccy/go-json"

	"github.com/vantle/strata/pkg/format"
	"github.com/vantle/strata/pkg/overhead"
	"github.com/vantle/strata/pkg/strataerrors"
)

const bytesPerGB = 1 << 30

// Report is the full outcome of an analysis: the decision, the ratio it
// was derived from, and every intermediate the projection used, so a
// reader can audit the arithmetic.
type Report struct {
	Path     string        `json:"path"`
	Format   format.Format `json:"format"`
	Decision Decision      `json:"decision"`

	Ratio            float64 `json:"ratio"`
	OverheadEstimate float64 `json:"overhead_estimate"`

	EstimatedMemoryGB float64 `json:"estimated_memory_gb"`
	AvailableMemoryGB float64 `json:"available_memory_gb"`
	TotalMemoryGB     float64 `json:"total_memory_gb"`
	SafetyMarginGB    float64 `json:"safety_margin_gb"`
	UsableMemoryGB    float64 `json:"usable_memory_gb"`

	Rows        int64 `json:"rows"`
	SampledRows int   `json:"sampled_rows,omitempty"`

	// Row-oriented inputs.
	AvgRowBytes float64 `json:"avg_row_bytes,omitempty"`

	// Columnar inputs.
	CompressedBytes       int64 `json:"compressed_bytes,omitempty"`
	UncompressedBytes     int64 `json:"uncompressed_bytes,omitempty"`
	UncompressedEstimated bool  `json:"uncompressed_estimated,omitempty"`

	StringColumns  int     `json:"string_columns"`
	StringAvgBytes float64 `json:"string_avg_bytes,omitempty"`

	Columns []overhead.ColumnOverhead `json:"columns"`
}

// JSON renders the report as compact JSON.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeInternal, "failed to encode report")
	}
	return data, nil
}

// JSONIndent renders the report as indented JSON for human consumption.
func (r *Report) JSONIndent() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeInternal, "failed to encode report")
	}
	return data, nil
}

func toGB(bytes float64) float64 {
	return bytes / bytesPerGB
}
