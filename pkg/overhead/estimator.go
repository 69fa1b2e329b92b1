package overhead

import (
	"github.com/vantle/strata/pkg/config"
	"github.com/vantle/strata/pkg/format"
	"github.com/vantle/strata/pkg/profile"
	"github.com/vantle/strata/pkg/strataerrors"
)

// ColumnOverhead records one column's contribution to the blend, kept so
// reports can show how the multiplier came together.
type ColumnOverhead struct {
	Name       string                `json:"name"`
	Type       profile.PrimitiveType `json:"type"`
	Multiplier float64               `json:"multiplier"`
	// AvgBytes is the column's mean on-disk byte width from the profile.
	AvgBytes float64 `json:"avg_bytes"`
}

// Blend is the blended overhead multiplier for a whole schema.
type Blend struct {
	// Multiplier is the unweighted arithmetic mean over all columns.
	Multiplier float64 `json:"multiplier"`
	// Columns is the per-column breakdown.
	Columns []ColumnOverhead `json:"columns"`
	// StringColumns is how many columns used the dynamic string curve.
	StringColumns int `json:"string_columns"`
	// StringAvgBytes is the pooled average string length fed to the curve;
	// zero when the schema has no string columns.
	StringAvgBytes float64 `json:"string_avg_bytes"`
}

// Estimator computes the blended multiplier for one storage format. The
// two formats differ only in their static table and string curve, so they
// are two implementations of the same capability selected by format tag.
type Estimator interface {
	Format() format.Format
	Estimate(p *profile.Profile) (*Blend, error)
}

// NewEstimator returns the estimator for the given format.
func NewEstimator(f format.Format, cfg config.OverheadConfig) (Estimator, error) {
	switch f {
	case format.CSV:
		return &csvEstimator{cfg: cfg}, nil
	case format.Columnar:
		return &columnarEstimator{cfg: cfg}, nil
	default:
		return nil, strataerrors.New(strataerrors.ErrorTypeFormat, "no estimator for format").
			WithDetail("format", string(f))
	}
}

type csvEstimator struct {
	cfg config.OverheadConfig
}

func (e *csvEstimator) Format() format.Format {
	return format.CSV
}

func (e *csvEstimator) Estimate(p *profile.Profile) (*Blend, error) {
	return blend(p, e.cfg, lookupCSV, func(avgLen float64) float64 {
		return CSVStringOverhead(avgLen)
	})
}

type columnarEstimator struct {
	cfg config.OverheadConfig
}

func (e *columnarEstimator) Format() format.Format {
	return format.Columnar
}

func (e *columnarEstimator) Estimate(p *profile.Profile) (*Blend, error) {
	return blend(p, e.cfg, lookupColumnar, func(avgLen float64) float64 {
		return ColumnarStringOverhead(avgLen, e.cfg.ColumnarStringFactor)
	})
}

// blend computes the unweighted mean of per-column multipliers. Every
// string column contributes the same dynamically computed value, driven by
// the pooled average length; every other column contributes its table
// entry. Unknown types fail with an unsupported_type error unless the
// fallback multiplier is configured.
func blend(p *profile.Profile, cfg config.OverheadConfig, lookup func(profile.PrimitiveType) (float64, bool), stringCurve func(float64) float64) (*Blend, error) {
	if len(p.Columns) == 0 {
		return nil, strataerrors.New(strataerrors.ErrorTypeSchema, "cannot estimate overhead for an empty schema").
			WithDetail("path", p.Descriptor.Path)
	}

	stringAvg, hasStrings := p.MeanStringBytes()
	stringMultiplier := 0.0
	if hasStrings {
		stringMultiplier = stringCurve(stringAvg)
	}

	b := &Blend{
		Columns:        make([]ColumnOverhead, 0, len(p.Columns)),
		StringAvgBytes: stringAvg,
	}

	sum := 0.0
	for _, col := range p.Columns {
		var m float64
		if col.Type == profile.TypeString {
			m = stringMultiplier
			b.StringColumns++
		} else {
			table, ok := lookup(col.Type)
			if !ok {
				if !cfg.HasFallback() {
					return nil, strataerrors.New(strataerrors.ErrorTypeUnsupportedType, "column type not in overhead table").
						WithDetail("column", col.Name).
						WithDetail("type", string(col.Type)).
						WithDetail("path", p.Descriptor.Path)
				}
				table = cfg.FallbackMultiplier
			}
			m = table
		}

		sum += m
		b.Columns = append(b.Columns, ColumnOverhead{
			Name:       col.Name,
			Type:       col.Type,
			Multiplier: m,
			AvgBytes:   col.AvgBytes,
		})
	}

	b.Multiplier = sum / float64(len(p.Columns))
	return b, nil
}
