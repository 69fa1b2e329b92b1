// Package sysmem exposes point-in-time system memory snapshots to the
// estimation engine. The engine queries the probe exactly once per
// analysis; values are never monitored continuously.
package sysmem

import (
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vantle/strata/pkg/strataerrors"
)

// Probe reports system memory. Implementations must be safe for concurrent
// use; the production implementation is stateless.
type Probe interface {
	// TotalBytes returns total physical memory.
	TotalBytes() (uint64, error)
	// AvailableBytes returns memory currently available to new allocations.
	AvailableBytes() (uint64, error)
}

// Snapshot is a single reading of system memory.
type Snapshot struct {
	TotalBytes     uint64
	AvailableBytes uint64
}

// Read takes one snapshot from the probe.
func Read(p Probe) (Snapshot, error) {
	total, err := p.TotalBytes()
	if err != nil {
		return Snapshot{}, strataerrors.Wrap(err, strataerrors.ErrorTypeInternal, "failed to read total system memory")
	}

	avail, err := p.AvailableBytes()
	if err != nil {
		return Snapshot{}, strataerrors.Wrap(err, strataerrors.ErrorTypeInternal, "failed to read available system memory")
	}

	return Snapshot{TotalBytes: total, AvailableBytes: avail}, nil
}

// SystemProbe reads memory through gopsutil.
type SystemProbe struct{}

// NewSystemProbe creates the production probe.
func NewSystemProbe() *SystemProbe {
	return &SystemProbe{}
}

// TotalBytes returns total physical memory.
func (p *SystemProbe) TotalBytes() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

// AvailableBytes returns currently available memory.
func (p *SystemProbe) AvailableBytes() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// StaticProbe returns fixed values. Used in tests and anywhere a caller
// wants to evaluate a file against a hypothetical machine.
type StaticProbe struct {
	Total     uint64
	Available uint64
}

// TotalBytes returns the configured total.
func (p *StaticProbe) TotalBytes() (uint64, error) {
	return p.Total, nil
}

// AvailableBytes returns the configured available amount.
func (p *StaticProbe) AvailableBytes() (uint64, error) {
	return p.Available, nil
}
