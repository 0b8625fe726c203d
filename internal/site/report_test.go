package site

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportFinish(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		warnings []string
		want     BuildOutcome
	}{
		{name: "success", want: OutcomeSuccess},
		{name: "warnings", warnings: []string{"ingest: skipped"}, want: OutcomeWarning},
		{name: "failure", err: fmt.Errorf("boom"), want: OutcomeFailed},
		{name: "canceled", err: fmt.Errorf("stage: %w", context.Canceled), want: OutcomeCanceled},
		{name: "deadline", err: context.DeadlineExceeded, want: OutcomeCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBuildReport("full")
			r.Warnings = tt.warnings
			r.finish(tt.err)
			assert.Equal(t, tt.want, r.Outcome)
			assert.False(t, r.End.Before(r.Start))
		})
	}
}

func TestBuildReportPersist(t *testing.T) {
	root := t.TempDir()
	r := newBuildReport("html-only")
	r.StageDurations[StageHomepage] = 1500 * time.Millisecond
	r.StageResults[StageHomepage] = StageResultSuccess
	r.Pages["homepage"] = 3
	r.Pages["script"] = 2
	r.finish(nil)
	require.NoError(t, r.Persist(root))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, root, "build-report.json")), &got))
	assert.Equal(t, "html-only", got["mode"])
	assert.EqualValues(t, 1500, got["stage_durations_ms"].(map[string]any)["homepage"])
	assert.Equal(t, "success", got["stage_results"].(map[string]any)["homepage"])
	assert.Equal(t, 5, r.PagesWritten())

	summary := readFile(t, root, "build-report.txt")
	assert.True(t, strings.HasPrefix(summary, "run="+r.RunID))
	assert.Contains(t, summary, "pages=5")
	assert.Contains(t, summary, "outcome=success")
}
