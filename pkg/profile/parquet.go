package profile

import (
	"context"
	"os"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/schema"
	"go.uber.org/zap"

	"github.com/vantle/strata/pkg/config"
	"github.com/vantle/strata/pkg/format"
	"github.com/vantle/strata/pkg/strataerrors"
)

// ColumnarReader profiles Parquet files from footer metadata alone: row
// count, per-column types, and compressed/uncompressed chunk sizes. Values
// are only decoded when a string-length sample is needed, and then only a
// bounded slice of the first row group.
type ColumnarReader struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewColumnarReader creates a Parquet profiler.
func NewColumnarReader(cfg *config.Config, logger *zap.Logger) *ColumnarReader {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ColumnarReader{cfg: cfg, logger: logger}
}

// columnChunkStats aggregates chunk metadata per column across row groups.
type columnChunkStats struct {
	compressed   int64
	uncompressed int64
	values       int64
}

// Profile reads the footer and returns the descriptor and column profiles.
func (r *ColumnarReader) Profile(ctx context.Context, path string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeNotFound, "columnar file not found").
				WithDetail("path", path)
		}
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeNotFound, "columnar file not accessible").
			WithDetail("path", path)
	}

	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeFormat, "unreadable parquet footer").
			WithDetail("path", path)
	}
	defer rdr.Close()

	meta := rdr.MetaData()
	sc := meta.Schema
	ncols := sc.NumColumns()
	if ncols == 0 {
		return nil, strataerrors.New(strataerrors.ErrorTypeSchema, "parquet file has no columns").
			WithDetail("path", path)
	}

	stats := make([]columnChunkStats, ncols)
	var compressedTotal, uncompressedTotal int64
	for rg := 0; rg < rdr.NumRowGroups(); rg++ {
		rgMeta := meta.RowGroup(rg)
		for col := 0; col < ncols; col++ {
			chunk, err := rgMeta.ColumnChunk(col)
			if err != nil {
				return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeFormat, "corrupt column chunk metadata").
					WithDetail("path", path).
					WithDetail("row_group", rg).
					WithDetail("column", col)
			}
			stats[col].compressed += chunk.TotalCompressedSize()
			stats[col].uncompressed += chunk.TotalUncompressedSize()
			stats[col].values += chunk.NumValues()
			compressedTotal += chunk.TotalCompressedSize()
			uncompressedTotal += chunk.TotalUncompressedSize()
		}
	}

	uncompressedEstimated := false
	if uncompressedTotal <= 0 {
		uncompressedTotal = int64(float64(compressedTotal) * r.cfg.Overhead.DecompressionRatio)
		uncompressedEstimated = true
	}

	rows := rdr.NumRows()
	columns := make([]ColumnProfile, ncols)
	for i := 0; i < ncols; i++ {
		col := sc.Column(i)
		colType, err := mapParquetType(col)
		if err != nil {
			return nil, err
		}

		cp := ColumnProfile{
			Name: col.Name(),
			Type: colType,
		}
		if stats[i].values > 0 {
			cp.AvgBytes = float64(stats[i].uncompressed) / float64(stats[i].values)
		}
		if colType == TypeString {
			cp.AvgStringBytes = r.sampleStringLengths(rdr, i, stats[i])
		}
		columns[i] = cp
	}

	r.logger.Debug("profiled parquet file",
		zap.String("path", path),
		zap.Int64("rows", rows),
		zap.Int("columns", ncols),
		zap.Int64("compressed_bytes", compressedTotal),
		zap.Int64("uncompressed_bytes", uncompressedTotal),
		zap.Bool("uncompressed_estimated", uncompressedEstimated),
	)

	return &Profile{
		Descriptor: FileDescriptor{
			Path:                  path,
			Format:                format.Columnar,
			Rows:                  rows,
			SizeBytes:             info.Size(),
			CompressedBytes:       compressedTotal,
			UncompressedBytes:     uncompressedTotal,
			UncompressedEstimated: uncompressedEstimated,
		},
		Columns: columns,
	}, nil
}

// sampleStringLengths decodes a bounded slice of the column's first chunk
// and takes the median byte length. When decoding is not possible the
// average falls back to chunk metadata (uncompressed bytes per value, net
// of the length prefix).
func (r *ColumnarReader) sampleStringLengths(rdr *file.Reader, colIdx int, st columnChunkStats) float64 {
	if lengths := r.decodeStringSample(rdr, colIdx); len(lengths) > 0 {
		return median(lengths)
	}

	if st.values == 0 {
		return 0
	}

	// Plain-encoded byte arrays carry a 4-byte length prefix per value.
	avg := float64(st.uncompressed)/float64(st.values) - 4
	if avg < 1 {
		avg = 1
	}
	return avg
}

func (r *ColumnarReader) decodeStringSample(rdr *file.Reader, colIdx int) []int {
	if rdr == nil || rdr.NumRowGroups() == 0 {
		return nil
	}

	ccr, err := rdr.RowGroup(0).Column(colIdx)
	if err != nil {
		r.logger.Debug("column chunk not decodable, using metadata fallback",
			zap.Int("column", colIdx), zap.Error(err))
		return nil
	}

	bar, ok := ccr.(*file.ByteArrayColumnChunkReader)
	if !ok {
		return nil
	}

	n := r.cfg.Sampling.MaxStringValues
	values := make([]parquet.ByteArray, n)
	defLvls := make([]int16, n)

	_, read, err := bar.ReadBatch(int64(n), values, defLvls, nil)
	if err != nil {
		r.logger.Debug("string sample decode failed, using metadata fallback",
			zap.Int("column", colIdx), zap.Error(err))
		return nil
	}

	lengths := make([]int, 0, read)
	for i := 0; i < read; i++ {
		lengths = append(lengths, len(values[i]))
	}
	return lengths
}

// mapParquetType maps a parquet column to the engine's primitive types,
// preferring the logical type and falling back to the physical one.
func mapParquetType(col *schema.Column) (PrimitiveType, error) {
	switch lt := col.LogicalType().(type) {
	case schema.StringLogicalType:
		return TypeString, nil
	case schema.DateLogicalType:
		return TypeDatetime, nil
	case *schema.TimestampLogicalType:
		return TypeDatetime, nil
	case *schema.TimeLogicalType:
		return TypeDatetime, nil
	case *schema.DecimalLogicalType:
		return TypeFloat64, nil
	case *schema.IntLogicalType:
		switch {
		case lt.BitWidth() <= 8:
			return TypeInt8, nil
		case lt.BitWidth() <= 16:
			return TypeInt16, nil
		case lt.BitWidth() <= 32:
			return TypeInt32, nil
		default:
			return TypeInt64, nil
		}
	}

	switch col.PhysicalType() {
	case parquet.Types.Boolean:
		return TypeBoolean, nil
	case parquet.Types.Int32:
		return TypeInt32, nil
	case parquet.Types.Int64:
		return TypeInt64, nil
	case parquet.Types.Int96:
		// Legacy timestamp encoding.
		return TypeDatetime, nil
	case parquet.Types.Float:
		return TypeFloat32, nil
	case parquet.Types.Double:
		return TypeFloat64, nil
	case parquet.Types.ByteArray:
		return TypeString, nil
	case parquet.Types.FixedLenByteArray:
		// UUIDs, fixed decimals. Width-wise they behave like short strings.
		return TypeString, nil
	default:
		return "", strataerrors.New(strataerrors.ErrorTypeUnsupportedType, "column type not covered by overhead tables").
			WithDetail("column", col.Name()).
			WithDetail("physical_type", col.PhysicalType().String())
	}
}
