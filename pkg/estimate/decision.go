// Package estimate projects a file's in-memory footprint and maps it to a
// load strategy. The decision is a pure function of the ratio of estimated
// memory to usable memory; no other signal influences the strategy once
// the ratio is computed.
package estimate

import (
	"github.com/vantle/strata/pkg/config"
	"github.com/vantle/strata/pkg/sysmem"
)

// Decision is the load strategy chosen for a file.
type Decision string

const (
	// DecisionEager loads the whole file into memory before processing.
	DecisionEager Decision = "eager"
	// DecisionLazy builds a deferred execution plan over the file.
	DecisionLazy Decision = "lazy"
	// DecisionStreaming processes the file in bounded incremental chunks.
	DecisionStreaming Decision = "streaming"
)

// UsableBytes computes memory available to the load net of the safety
// margin reserved for the OS and other processes. The result can be
// negative on a memory-starved machine; callers must not divide by it
// without flooring.
func UsableBytes(snap sysmem.Snapshot, marginFraction float64) (usable, margin float64) {
	margin = float64(snap.TotalBytes) * marginFraction
	usable = float64(snap.AvailableBytes) - margin
	return usable, margin
}

// Ratio computes estimated/usable for reporting. A zero estimate is
// always 0. Usable memory at or below zero is floored to one byte so the
// reported value stays finite; the strategy for that case comes from
// DecideEstimate, not from the ratio.
func Ratio(estimatedBytes, usableBytes float64) float64 {
	if estimatedBytes <= 0 {
		return 0
	}
	if usableBytes < 1 {
		usableBytes = 1
	}
	return estimatedBytes / usableBytes
}

// Decide maps a ratio onto a strategy using the configured thresholds.
func Decide(ratio float64, cfg config.DecisionConfig) Decision {
	switch {
	case ratio <= cfg.EagerThreshold:
		return DecisionEager
	case ratio <= cfg.LazyThreshold:
		return DecisionLazy
	default:
		return DecisionStreaming
	}
}

// DecideEstimate picks the strategy for a projected footprint. Two cases
// bypass the thresholds: a zero estimate is always eager, and a nonzero
// estimate with no usable memory always streams, no matter how small the
// file is.
func DecideEstimate(estimatedBytes, usableBytes float64, cfg config.DecisionConfig) Decision {
	if estimatedBytes <= 0 {
		return DecisionEager
	}
	if usableBytes <= 0 {
		return DecisionStreaming
	}
	return Decide(estimatedBytes/usableBytes, cfg)
}
