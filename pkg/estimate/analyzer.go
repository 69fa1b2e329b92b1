package estimate

import (
	"context"

	"go.uber.org/zap"

	"github.com/vantle/strata/pkg/config"
	"github.com/vantle/strata/pkg/format"
	"github.com/vantle/strata/pkg/logger"
	"github.com/vantle/strata/pkg/overhead"
	"github.com/vantle/strata/pkg/profile"
	"github.com/vantle/strata/pkg/sysmem"
)

// Analyzer runs the full pipeline for one file: profile the schema and
// sample, blend per-column overheads, probe system memory, project the
// footprint, and decide the load strategy.
type Analyzer struct {
	cfg      *config.Config
	probe    sysmem.Probe
	log      *zap.Logger
	csv      *profile.CSVReader
	columnar *profile.ColumnarReader
}

// NewAnalyzer builds an Analyzer. A nil config uses defaults, a nil probe
// reads the local machine, and a nil logger uses the global one.
func NewAnalyzer(cfg *config.Config, probe sysmem.Probe, log *zap.Logger) *Analyzer {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if probe == nil {
		probe = sysmem.NewSystemProbe()
	}
	if log == nil {
		log = logger.Get()
	}
	return &Analyzer{
		cfg:      cfg,
		probe:    probe,
		log:      log,
		csv:      profile.NewCSVReader(cfg, log),
		columnar: profile.NewColumnarReader(cfg, log),
	}
}

// Analyze detects the file format from its name and magic bytes, then
// runs AnalyzeFormat.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Report, error) {
	f, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFormat(ctx, path, f)
}

// AnalyzeFormat runs the pipeline with an explicit format override.
func (a *Analyzer) AnalyzeFormat(ctx context.Context, path string, f format.Format) (*Report, error) {
	prof, err := a.profileFile(ctx, path, f)
	if err != nil {
		return nil, err
	}

	est, err := overhead.NewEstimator(f, a.cfg.Overhead)
	if err != nil {
		return nil, err
	}
	blend, err := est.Estimate(prof)
	if err != nil {
		return nil, err
	}

	snap, err := sysmem.Read(a.probe)
	if err != nil {
		return nil, err
	}

	return a.report(prof, blend, snap), nil
}

func (a *Analyzer) profileFile(ctx context.Context, path string, f format.Format) (*profile.Profile, error) {
	switch f {
	case format.Columnar:
		return a.columnar.Profile(ctx, path)
	default:
		return a.csv.Profile(ctx, path)
	}
}

func (a *Analyzer) report(prof *profile.Profile, blend *overhead.Blend, snap sysmem.Snapshot) *Report {
	d := prof.Descriptor

	var estimated float64
	if d.Format == format.Columnar {
		estimated = ProjectColumnar(d.UncompressedBytes, blend.Multiplier)
	} else {
		estimated = ProjectCSV(d.Rows, d.AvgRowBytes, blend.Multiplier)
	}

	usable, margin := UsableBytes(snap, a.cfg.Decision.SafetyMarginFraction)
	ratio := Ratio(estimated, usable)
	decision := DecideEstimate(estimated, usable, a.cfg.Decision)

	a.log.Info("load strategy decided",
		zap.String("path", d.Path),
		zap.String("format", string(d.Format)),
		zap.String("decision", string(decision)),
		zap.Float64("ratio", ratio),
		zap.Float64("overhead", blend.Multiplier),
		zap.Float64("estimated_gb", toGB(estimated)),
		zap.Float64("usable_gb", toGB(usable)),
	)

	return &Report{
		Path:     d.Path,
		Format:   d.Format,
		Decision: decision,

		Ratio:            ratio,
		OverheadEstimate: blend.Multiplier,

		EstimatedMemoryGB: toGB(estimated),
		AvailableMemoryGB: toGB(float64(snap.AvailableBytes)),
		TotalMemoryGB:     toGB(float64(snap.TotalBytes)),
		SafetyMarginGB:    toGB(margin),
		UsableMemoryGB:    toGB(usable),

		Rows:        d.Rows,
		SampledRows: d.SampledRows,

		AvgRowBytes: d.AvgRowBytes,

		CompressedBytes:       d.CompressedBytes,
		UncompressedBytes:     d.UncompressedBytes,
		UncompressedEstimated: d.UncompressedEstimated,

		StringColumns:  blend.StringColumns,
		StringAvgBytes: blend.StringAvgBytes,

		Columns: blend.Columns,
	}
}
