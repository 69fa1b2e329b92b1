package strata

import (
	"context"

	"github.com/vantle/strata/pkg/config"
	"github.com/vantle/strata/pkg/estimate"
	"github.com/vantle/strata/pkg/format"
)

// Analyze profiles the file at path with default configuration and the
// local machine's memory, returning the load-strategy report. The format
// is detected from the file name and magic bytes.
func Analyze(ctx context.Context, path string) (*estimate.Report, error) {
	return estimate.NewAnalyzer(nil, nil, nil).Analyze(ctx, path)
}

// AnalyzeFormat is Analyze with an explicit format override.
func AnalyzeFormat(ctx context.Context, path string, f format.Format) (*estimate.Report, error) {
	return estimate.NewAnalyzer(nil, nil, nil).AnalyzeFormat(ctx, path, f)
}

// AnalyzeWithConfig profiles the file using the supplied configuration.
func AnalyzeWithConfig(ctx context.Context, path string, cfg *config.Config) (*estimate.Report, error) {
	return estimate.NewAnalyzer(cfg, nil, nil).Analyze(ctx, path)
}
