// Package strata decides how a tabular data file should be loaded: eager,
// lazy, or streaming. It profiles the file cheaply — schema plus a bounded
// row sample for CSV, footer metadata for columnar formats — blends
// per-type memory overhead multipliers into a single factor, projects the
// in-memory footprint, and compares it against the memory the machine can
// actually spare.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/vantle/strata"
//	)
//
//	report, err := strata.Analyze(context.Background(), "events.parquet")
//	if err != nil {
//	    // handle
//	}
//	fmt.Println(report.Decision, report.Ratio)
//
// # Key Packages
//
//	pkg/profile   - Schema and sample readers for CSV and columnar files
//	pkg/overhead  - Per-type multiplier tables and the blend computation
//	pkg/estimate  - Footprint projection, decision thresholds, reports
//	pkg/sysmem    - System memory probes
//	pkg/format    - File format detection
//	pkg/config    - Configuration with YAML loading and validation
//	pkg/logger    - Structured logging
//
// # Decision Model
//
// The decision is a pure function of one number: the ratio of the
// estimated in-memory footprint to usable memory (available memory minus
// a safety margin of 30% of total). Ratios at or below 0.65 load eagerly,
// at or below 2.0 lazily, and anything larger streams. Thresholds and the
// margin are configurable.
package strata
