package sysmem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantle/strata/pkg/strataerrors"
)

type failingProbe struct {
	totalErr error
	availErr error
}

func (p *failingProbe) TotalBytes() (uint64, error)     { return 8 << 30, p.totalErr }
func (p *failingProbe) AvailableBytes() (uint64, error) { return 4 << 30, p.availErr }

func TestReadStaticProbe(t *testing.T) {
	snap, err := Read(&StaticProbe{Total: 16 << 30, Available: 10 << 30})
	require.NoError(t, err)
	assert.Equal(t, uint64(16<<30), snap.TotalBytes)
	assert.Equal(t, uint64(10<<30), snap.AvailableBytes)
}

func TestReadWrapsProbeErrors(t *testing.T) {
	probeErr := errors.New("sysfs unavailable")

	_, err := Read(&failingProbe{totalErr: probeErr})
	require.Error(t, err)
	assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeInternal))
	assert.ErrorIs(t, err, probeErr)

	_, err = Read(&failingProbe{availErr: probeErr})
	require.Error(t, err)
	assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeInternal))
}

func TestSystemProbe(t *testing.T) {
	snap, err := Read(NewSystemProbe())
	require.NoError(t, err)

	assert.Greater(t, snap.TotalBytes, uint64(0))
	assert.Greater(t, snap.AvailableBytes, uint64(0))
	assert.LessOrEqual(t, snap.AvailableBytes, snap.TotalBytes)
}
