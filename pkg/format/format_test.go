package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantle/strata/pkg/strataerrors"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"CSV", CSV, false},
		{"columnar", Columnar, false},
		{"parquet", Columnar, false},
		{"Parquet", Columnar, false},
		{"avro", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectByExtension(t *testing.T) {
	// Extension matches never touch the file.
	tests := []struct {
		path string
		want Format
	}{
		{"data.parquet", Columnar},
		{"DATA.PARQUET", Columnar},
		{"data.csv", CSV},
		{"data.csv.gz", CSV},
		{"data.tsv", CSV},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Detect(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectByMagic(t *testing.T) {
	t.Run("parquet magic", func(t *testing.T) {
		path := writeFile(t, "export.dat", []byte("PAR1xxxxxxxx"))
		got, err := Detect(path)
		require.NoError(t, err)
		assert.Equal(t, Columnar, got)
	})

	t.Run("gzip magic is compressed text", func(t *testing.T) {
		path := writeFile(t, "export.dat", []byte{0x1f, 0x8b, 0x08, 0x00})
		got, err := Detect(path)
		require.NoError(t, err)
		assert.Equal(t, CSV, got)
	})

	t.Run("plain text defaults to csv", func(t *testing.T) {
		path := writeFile(t, "export.dat", []byte("a,b\n1,2\n"))
		got, err := Detect(path)
		require.NoError(t, err)
		assert.Equal(t, CSV, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Detect(filepath.Join(t.TempDir(), "missing.dat"))
		require.Error(t, err)
		assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeNotFound))
	})

	t.Run("too short to identify", func(t *testing.T) {
		path := writeFile(t, "tiny.dat", []byte("x"))
		_, err := Detect(path)
		require.Error(t, err)
		assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeFormat))
	})
}

func TestIsGzip(t *testing.T) {
	assert.True(t, IsGzip("anything.gz"))
	assert.True(t, IsGzip(writeFile(t, "compressed.dat", []byte{0x1f, 0x8b, 0x08, 0x00})))
	assert.False(t, IsGzip(writeFile(t, "plain.dat", []byte("a,b\n"))))
	assert.False(t, IsGzip(filepath.Join(t.TempDir(), "missing.dat")))
}
