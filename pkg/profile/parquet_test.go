package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantle/strata/pkg/strataerrors"
)

func TestColumnarProfileMissingFile(t *testing.T) {
	_, err := NewColumnarReader(nil, nil).Profile(context.Background(),
		filepath.Join(t.TempDir(), "missing.parquet"))
	require.Error(t, err)
	assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeNotFound))
}

func TestColumnarProfileNotParquet(t *testing.T) {
	path := writeFile(t, "fake.parquet", "id,name\n1,alpha\n")

	_, err := NewColumnarReader(nil, nil).Profile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeFormat))
}

func TestColumnarProfileTruncatedMagic(t *testing.T) {
	// A valid leading magic with no footer is still unreadable.
	path := writeFile(t, "trunc.parquet", "PAR1")

	_, err := NewColumnarReader(nil, nil).Profile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeFormat))
}

func TestColumnarProfileCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewColumnarReader(nil, nil).Profile(ctx, "whatever.parquet")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetadataStringFallback(t *testing.T) {
	r := NewColumnarReader(nil, nil)

	t.Run("no values", func(t *testing.T) {
		assert.Zero(t, r.sampleStringLengths(nil, 0, columnChunkStats{}))
	})

	t.Run("length prefix subtracted", func(t *testing.T) {
		// 10 values over 140 uncompressed bytes: 14 bytes per value, 4 of
		// which are the length prefix.
		got := r.sampleStringLengths(nil, 0, columnChunkStats{uncompressed: 140, values: 10})
		assert.InDelta(t, 10.0, got, 1e-9)
	})

	t.Run("floored at one byte", func(t *testing.T) {
		got := r.sampleStringLengths(nil, 0, columnChunkStats{uncompressed: 20, values: 10})
		assert.InDelta(t, 1.0, got, 1e-9)
	})
}
