package overhead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSVStringOverhead(t *testing.T) {
	tests := []struct {
		name   string
		avgLen float64
		want   float64
	}{
		{"zero length uses shortest bucket", 0, 2.0},
		{"negative length uses shortest bucket", -3, 2.0},
		{"single char", 1, 2.0},
		{"short", 4, 1.8},
		{"boundary five", 5, 1.8},
		{"medium short", 8, 1.6},
		{"boundary ten", 10, 1.6},
		{"medium", 15, 1.4},
		{"boundary twenty", 20, 1.4},
		{"long", 35, 1.25},
		{"boundary fifty", 50, 1.25},
		{"very long hits floor", 200, 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CSVStringOverhead(tt.avgLen), 1e-9)
		})
	}
}

func TestCSVStringOverheadMonotonic(t *testing.T) {
	prev := CSVStringOverhead(0)
	for avg := 1.0; avg <= 300; avg++ {
		cur := CSVStringOverhead(avg)
		assert.LessOrEqual(t, cur, prev, "multiplier must not increase with length (avg=%v)", avg)
		assert.GreaterOrEqual(t, cur, 1.0)
		prev = cur
	}
}

func TestColumnarStringOverhead(t *testing.T) {
	const factor = 4.0

	tests := []struct {
		name   string
		avgLen float64
		want   float64
	}{
		{"zero length is capped", 0, 3.0},
		{"negative length is capped", -1, 3.0},
		{"tiny strings hit cap", 1, 3.0},
		{"curve midpoint", 4, 2.0},
		{"curve value", 8, 1.5},
		{"long strings hit floor", 100, 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ColumnarStringOverhead(tt.avgLen, factor), 1e-9)
		})
	}
}

func TestColumnarStringOverheadMonotonic(t *testing.T) {
	prev := ColumnarStringOverhead(1, 4.0)
	for avg := 2.0; avg <= 300; avg++ {
		cur := ColumnarStringOverhead(avg, 4.0)
		assert.LessOrEqual(t, cur, prev)
		assert.GreaterOrEqual(t, cur, 1.0)
		prev = cur
	}
}

// Every static table entry must be at least 1.0: in-memory representations
// never shrink relative to the logical data.
func TestTableMultipliersAtLeastOne(t *testing.T) {
	for typ, m := range csvTable {
		assert.GreaterOrEqual(t, m, 1.0, "csv table entry %s", typ)
	}
	for typ, m := range columnarTable {
		assert.GreaterOrEqual(t, m, 1.0, "columnar table entry %s", typ)
	}
}
