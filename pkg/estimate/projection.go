package estimate

// ProjectCSV projects the in-memory footprint of a row-oriented text file:
// total rows times the average on-disk row width, inflated by the blended
// overhead multiplier.
func ProjectCSV(rows int64, avgRowBytes, multiplier float64) float64 {
	if rows <= 0 {
		return 0
	}
	return float64(rows) * avgRowBytes * multiplier
}

// ProjectColumnar projects the in-memory footprint of a columnar file from
// its decompressed payload size and the blended overhead multiplier. The
// caller supplies the decompressed size from file metadata, or an
// extrapolation when the metadata omits it.
func ProjectColumnar(uncompressedBytes int64, multiplier float64) float64 {
	if uncompressedBytes <= 0 {
		return 0
	}
	return float64(uncompressedBytes) * multiplier
}
