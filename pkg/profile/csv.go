package profile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/vantle/strata/pkg/config"
	"github.com/vantle/strata/pkg/format"
	"github.com/vantle/strata/pkg/strataerrors"
)

// CSVReader profiles delimited text files, plain or gzip-compressed.
// Sampling is capped by config so profiling latency does not grow with
// file size.
type CSVReader struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCSVReader creates a CSV profiler.
func NewCSVReader(cfg *config.Config, logger *zap.Logger) *CSVReader {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVReader{cfg: cfg, logger: logger}
}

// columnTracker accumulates per-column observations over the sample.
type columnTracker struct {
	name     string
	nonEmpty int
	kinds    map[PrimitiveType]int
	minInt   int64
	maxInt   int64
	byteLens []int
	sumBytes int64
}

// Profile samples the file and returns its descriptor and column profiles.
func (r *CSVReader) Profile(ctx context.Context, path string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeNotFound, "csv file not found").
				WithDetail("path", path)
		}
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeNotFound, "csv file not accessible").
			WithDetail("path", path)
	}

	compressed := format.IsGzip(path)

	trackers, sampled, err := r.sample(ctx, path, compressed)
	if err != nil {
		return nil, err
	}

	rows, err := r.countRows(ctx, path, compressed, info.Size())
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnProfile, len(trackers))
	avgRowBytes := 0.0
	for i, tr := range trackers {
		col := ColumnProfile{
			Name: tr.name,
			Type: tr.inferType(),
		}
		if sampled > 0 {
			col.AvgBytes = float64(tr.sumBytes) / float64(sampled)
		}
		if col.Type == TypeString {
			col.AvgStringBytes = median(tr.byteLens)
		}
		columns[i] = col
		avgRowBytes += col.AvgBytes
	}

	// Delimiters between columns plus the row terminator.
	if sampled > 0 {
		avgRowBytes += float64(len(columns))
	}

	r.logger.Debug("profiled csv file",
		zap.String("path", path),
		zap.Int64("rows", rows),
		zap.Int("columns", len(columns)),
		zap.Int("sampled_rows", sampled),
		zap.Bool("compressed", compressed),
	)

	return &Profile{
		Descriptor: FileDescriptor{
			Path:        path,
			Format:      format.CSV,
			Rows:        rows,
			SizeBytes:   info.Size(),
			AvgRowBytes: avgRowBytes,
			SampledRows: sampled,
		},
		Columns: columns,
	}, nil
}

// sample reads the header and up to MaxRows data rows.
func (r *CSVReader) sample(ctx context.Context, path string, compressed bool) ([]*columnTracker, int, error) {
	rc, err := r.open(path, compressed)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	cr := csv.NewReader(bufio.NewReader(rc))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, strataerrors.New(strataerrors.ErrorTypeSchema, "csv file has no columns").
				WithDetail("path", path)
		}
		return nil, 0, strataerrors.Wrap(err, strataerrors.ErrorTypeFormat, "unreadable csv header").
			WithDetail("path", path)
	}

	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, 0, strataerrors.New(strataerrors.ErrorTypeSchema, "csv file has no columns").
			WithDetail("path", path)
	}

	trackers := make([]*columnTracker, len(header))
	for i, name := range header {
		trackers[i] = &columnTracker{
			name:  name,
			kinds: make(map[PrimitiveType]int),
		}
	}

	sampled := 0
	for sampled < r.cfg.Sampling.MaxRows {
		if sampled%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, strataerrors.Wrap(err, strataerrors.ErrorTypeFormat, "malformed csv row").
				WithDetail("path", path).
				WithDetail("row", sampled+1)
		}

		for i, tr := range trackers {
			if i < len(row) {
				tr.observe(row[i])
			} else {
				tr.observe("")
			}
		}
		sampled++
	}

	return trackers, sampled, nil
}

// open opens the file, layering a gzip decompressor when needed.
func (r *CSVReader) open(path string, compressed bool) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // G304: caller-controlled analysis input
	if err != nil {
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeNotFound, "failed to open csv file").
			WithDetail("path", path)
	}

	if !compressed {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeFormat, "corrupt gzip stream").
			WithDetail("path", path)
	}

	return &gzipReadCloser{gz: gz, file: f}, nil
}

// countRows counts data rows with a cheap newline scan. Newlines embedded
// in quoted fields are counted as row breaks, overstating the count for
// such files; the estimate only grows more conservative. For compressed
// files the scan is capped at MaxCountBytes of decompressed data and the
// count is extrapolated from the portion of the compressed stream consumed.
func (r *CSVReader) countRows(ctx context.Context, path string, compressed bool, fileSize int64) (int64, error) {
	rc, err := r.open(path, compressed)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	var (
		lines     int64
		scanned   int64
		lastByte  byte
		sawByte   bool
		truncated bool
	)

	buf := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := rc.Read(buf)
		if n > 0 {
			lines += int64(bytes.Count(buf[:n], []byte{'\n'}))
			scanned += int64(n)
			lastByte = buf[n-1]
			sawByte = true
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, strataerrors.Wrap(err, strataerrors.ErrorTypeFormat, "failed to scan csv rows").
				WithDetail("path", path)
		}
		if compressed && scanned >= r.cfg.Sampling.MaxCountBytes {
			truncated = true
			break
		}
	}

	// A final line without a terminator still counts.
	if sawByte && lastByte != '\n' {
		lines++
	}

	rows := lines - 1 // header
	if rows < 0 {
		rows = 0
	}

	if truncated {
		// Extrapolate from the assumed compression ratio; an overshoot
		// only makes the decision more conservative.
		estimatedTotal := float64(fileSize) * r.cfg.Overhead.DecompressionRatio
		if scanned > 0 && estimatedTotal > float64(scanned) {
			rows = int64(float64(rows) * estimatedTotal / float64(scanned))
		}
		r.logger.Warn("row count pass truncated, extrapolating",
			zap.String("path", path),
			zap.Int64("scanned_bytes", scanned),
			zap.Int64("estimated_rows", rows),
		)
	}

	return rows, nil
}

func (t *columnTracker) observe(value string) {
	t.sumBytes += int64(len(value))
	t.byteLens = append(t.byteLens, len(value))

	if value == "" {
		return
	}
	t.nonEmpty++

	kind := classifyValue(value)
	t.kinds[kind]++

	if kind == TypeInt64 {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			if t.nonEmpty == 1 || n < t.minInt {
				t.minInt = n
			}
			if t.nonEmpty == 1 || n > t.maxInt {
				t.maxInt = n
			}
		}
	}
}

// inferType picks the dominant sampled kind, defaulting to string when the
// sample is mixed. Mirrors a 95% confidence rule: occasional dirty values
// do not flip a numeric column to string, but a genuinely mixed column
// does.
func (t *columnTracker) inferType() PrimitiveType {
	if t.nonEmpty == 0 {
		return TypeString
	}

	var dominant PrimitiveType
	maxCount := 0
	for kind, count := range t.kinds {
		if count > maxCount {
			maxCount = count
			dominant = kind
		}
	}

	if float64(maxCount)/float64(t.nonEmpty) < 0.95 {
		// Mixed integer and float observations are still numeric: promote
		// to float64 rather than degrading to string.
		numeric := t.kinds[TypeInt64] + t.kinds[TypeFloat64]
		if t.kinds[TypeFloat64] > 0 && float64(numeric)/float64(t.nonEmpty) >= 0.95 {
			return TypeFloat64
		}
		return TypeString
	}

	if dominant == TypeInt64 {
		return intWidth(t.minInt, t.maxInt)
	}
	return dominant
}

// classifyValue detects the type of a single textual value.
func classifyValue(value string) PrimitiveType {
	if isBooleanToken(value) {
		return TypeBoolean
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return TypeInt64
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return TypeFloat64
	}
	if isDatetimeToken(value) {
		return TypeDatetime
	}
	return TypeString
}

func isBooleanToken(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func isDatetimeToken(s string) bool {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// intWidth returns the narrowest integer type that holds the observed
// range.
func intWidth(min, max int64) PrimitiveType {
	switch {
	case min >= -(1<<7) && max < 1<<7:
		return TypeInt8
	case min >= -(1<<15) && max < 1<<15:
		return TypeInt16
	case min >= -(1<<31) && max < 1<<31:
		return TypeInt32
	default:
		return TypeInt64
	}
}

// gzipReadCloser closes both the decompressor and the underlying file.
type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}
