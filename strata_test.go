package strata_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantle/strata"
	"github.com/vantle/strata/pkg/estimate"
	"github.com/vantle/strata/pkg/format"
)

func TestAnalyze(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,alpha\n2,beta\n"), 0o600))

	report, err := strata.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, format.CSV, report.Format)
	assert.Equal(t, int64(2), report.Rows)
	assert.Contains(t, []estimate.Decision{
		estimate.DecisionEager,
		estimate.DecisionLazy,
		estimate.DecisionStreaming,
	}, report.Decision)
	assert.Greater(t, report.TotalMemoryGB, 0.0)
}

func TestAnalyzeFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.dat")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o600))

	report, err := strata.AnalyzeFormat(context.Background(), path, format.CSV)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Rows)
}
