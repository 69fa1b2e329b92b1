package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vantle/strata/pkg/strataerrors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeGzipFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func columnByName(t *testing.T, p *Profile, name string) ColumnProfile {
	t.Helper()
	for _, c := range p.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no column named %q", name)
	return ColumnProfile{}
}

func TestCSVProfileTypeInference(t *testing.T) {
	content := "small,wide,huge,score,flag,day,label\n" +
		"1,1000,3000000000,1.5,true,2024-01-15,alpha\n" +
		"2,-2000,4000000000,2.25,false,2024-02-20,beta\n" +
		"100,30000,5000000000,0.5,yes,2024-03-25,gamma\n"

	p, err := NewCSVReader(nil, nil).Profile(context.Background(), writeFile(t, "typed.csv", content))
	require.NoError(t, err)

	assert.Equal(t, TypeInt8, columnByName(t, p, "small").Type)
	assert.Equal(t, TypeInt16, columnByName(t, p, "wide").Type)
	assert.Equal(t, TypeInt64, columnByName(t, p, "huge").Type)
	assert.Equal(t, TypeFloat64, columnByName(t, p, "score").Type)
	assert.Equal(t, TypeBoolean, columnByName(t, p, "flag").Type)
	assert.Equal(t, TypeDatetime, columnByName(t, p, "day").Type)
	assert.Equal(t, TypeString, columnByName(t, p, "label").Type)
}

func TestCSVProfileRowCount(t *testing.T) {
	t.Run("trailing newline", func(t *testing.T) {
		p, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "a.csv", "x\n1\n2\n3\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.Descriptor.Rows)
	})

	t.Run("no trailing newline", func(t *testing.T) {
		p, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "b.csv", "x\n1\n2\n3"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.Descriptor.Rows)
	})

	t.Run("header only", func(t *testing.T) {
		p, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "c.csv", "x,y\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.Descriptor.Rows)
		assert.Equal(t, 0, p.Descriptor.SampledRows)
		assert.Len(t, p.Columns, 2)
	})
}

func TestCSVProfileStringMedian(t *testing.T) {
	// Widths 2, 3 and 10; the median resists the outlier.
	content := "name\nab\nabc\nabcdefghij\n"

	p, err := NewCSVReader(nil, nil).Profile(context.Background(), writeFile(t, "m.csv", content))
	require.NoError(t, err)

	col := columnByName(t, p, "name")
	assert.Equal(t, TypeString, col.Type)
	assert.InDelta(t, 3.0, col.AvgStringBytes, 1e-9)
}

func TestCSVProfileAvgRowBytes(t *testing.T) {
	// One byte per value plus one delimiter byte per column.
	content := "a,b\n1,x\n2,y\n"

	p, err := NewCSVReader(nil, nil).Profile(context.Background(), writeFile(t, "w.csv", content))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, p.Descriptor.AvgRowBytes, 1e-9)
}

func TestCSVProfileTypeDominance(t *testing.T) {
	t.Run("rare dirty values stay numeric", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("v\n")
		for i := 0; i < 97; i++ {
			fmt.Fprintf(&sb, "%d\n", i%100)
		}
		sb.WriteString("n/a\n")

		p, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "dirty.csv", sb.String()))
		require.NoError(t, err)
		assert.Equal(t, TypeInt8, columnByName(t, p, "v").Type)
	})

	t.Run("genuinely mixed column is a string", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("v\n")
		for i := 0; i < 18; i++ {
			fmt.Fprintf(&sb, "%d\n", i)
		}
		sb.WriteString("hello\nworld\n")

		p, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "mixed.csv", sb.String()))
		require.NoError(t, err)
		assert.Equal(t, TypeString, columnByName(t, p, "v").Type)
	})

	t.Run("mixed ints and floats promote to float", func(t *testing.T) {
		content := "v\n1\n2.5\n3\n4.5\n"

		p, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "numeric.csv", content))
		require.NoError(t, err)
		assert.Equal(t, TypeFloat64, columnByName(t, p, "v").Type)
	})

	t.Run("all empty column is a string", func(t *testing.T) {
		content := "a,b\n1,\n2,\n"

		p, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "sparse.csv", content))
		require.NoError(t, err)
		assert.Equal(t, TypeString, columnByName(t, p, "b").Type)
	})
}

func TestCSVProfileGzip(t *testing.T) {
	content := "id,name\n1,alpha\n2,beta\n3,gamma\n"
	path := writeGzipFile(t, "data.csv.gz", content)

	p, err := NewCSVReader(nil, zaptest.NewLogger(t)).Profile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, int64(3), p.Descriptor.Rows)
	assert.Equal(t, 3, p.Descriptor.SampledRows)
	assert.Equal(t, TypeInt8, columnByName(t, p, "id").Type)
	assert.Equal(t, TypeString, columnByName(t, p, "name").Type)
}

func TestCSVProfileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewCSVReader(nil, nil).Profile(context.Background(),
			filepath.Join(t.TempDir(), "missing.csv"))
		require.Error(t, err)
		assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeNotFound))
	})

	t.Run("empty file has no columns", func(t *testing.T) {
		_, err := NewCSVReader(nil, nil).Profile(context.Background(),
			writeFile(t, "empty.csv", ""))
		require.Error(t, err)
		assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeSchema))
	})

	t.Run("corrupt gzip stream", func(t *testing.T) {
		path := writeFile(t, "bad.csv.gz", "\x1f\x8bnot really gzip")
		_, err := NewCSVReader(nil, nil).Profile(context.Background(), path)
		require.Error(t, err)
		assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeFormat))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewCSVReader(nil, nil).Profile(ctx, writeFile(t, "x.csv", "a\n1\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMedian(t *testing.T) {
	assert.Zero(t, median(nil))
	assert.InDelta(t, 5.0, median([]int{5}), 1e-9)
	assert.InDelta(t, 3.0, median([]int{1, 3, 100}), 1e-9)
	assert.InDelta(t, 2.5, median([]int{1, 2, 3, 100}), 1e-9)
}

func TestIntWidth(t *testing.T) {
	assert.Equal(t, TypeInt8, intWidth(-128, 127))
	assert.Equal(t, TypeInt16, intWidth(-129, 0))
	assert.Equal(t, TypeInt16, intWidth(0, 32767))
	assert.Equal(t, TypeInt32, intWidth(0, 40000))
	assert.Equal(t, TypeInt64, intWidth(0, 1<<40))
}
