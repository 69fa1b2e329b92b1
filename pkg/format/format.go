// Package format identifies the storage format of a tabular data file.
// Detection is cheap: file extension first, then a few magic bytes. A
// caller that already knows the format can bypass detection entirely by
// passing an explicit tag.
package format

import (
	"io"
	"os"
	"strings"

	"github.com/vantle/strata/pkg/strataerrors"
)

// Format tags the storage layout of a tabular file.
type Format string

const (
	// CSV is a delimited row-oriented text file, optionally gzip-compressed.
	CSV Format = "csv"
	// Columnar is a compressed columnar file with embedded metadata
	// (Parquet).
	Columnar Format = "columnar"
)

// parquetMagic are the first four bytes of every Parquet file.
var parquetMagic = []byte("PAR1")

// gzipMagic are the first two bytes of a gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// Parse validates a user-supplied format tag.
func Parse(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case CSV:
		return CSV, nil
	case Columnar:
		return Columnar, nil
	case "parquet":
		// Accepted alias for the columnar format.
		return Columnar, nil
	default:
		return "", strataerrors.New(strataerrors.ErrorTypeFormat, "unknown format tag").
			WithDetail("tag", s)
	}
}

// Detect determines the format of the file at path from its extension,
// falling back to magic bytes when the extension is unrecognized.
func Detect(path string) (Format, error) {
	switch {
	case hasSuffixFold(path, ".parquet"):
		return Columnar, nil
	case hasSuffixFold(path, ".csv"), hasSuffixFold(path, ".csv.gz"), hasSuffixFold(path, ".tsv"):
		return CSV, nil
	}

	f, err := os.Open(path) //nolint:gosec // G304: caller-controlled analysis input
	if err != nil {
		if os.IsNotExist(err) {
			return "", strataerrors.Wrap(err, strataerrors.ErrorTypeNotFound, "file not found").
				WithDetail("path", path)
		}
		return "", strataerrors.Wrap(err, strataerrors.ErrorTypeNotFound, "file not readable").
			WithDetail("path", path)
	}
	defer f.Close()

	header := make([]byte, 4)
	n, err := io.ReadFull(f, header)
	if err != nil && n < 2 {
		return "", strataerrors.New(strataerrors.ErrorTypeFormat, "file too short to identify").
			WithDetail("path", path)
	}

	switch {
	case n >= 4 && string(header[:4]) == string(parquetMagic):
		return Columnar, nil
	case header[0] == gzipMagic[0] && header[1] == gzipMagic[1]:
		// Compressed text input; the CSV reader decompresses on the fly.
		return CSV, nil
	default:
		// Plain text with no recognizable magic is treated as CSV.
		return CSV, nil
	}
}

// IsGzip reports whether the file is a gzip stream, by extension or magic.
func IsGzip(path string) bool {
	if hasSuffixFold(path, ".gz") {
		return true
	}

	f, err := os.Open(path) //nolint:gosec // G304: caller-controlled analysis input
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, 2)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return header[0] == gzipMagic[0] && header[1] == gzipMagic[1]
}

func hasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), suffix)
}
