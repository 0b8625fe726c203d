package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_discussions", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_discussions", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.SetEntityCount("discussions", 12)
	pr.AddPagesWritten("discussion", 12)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "forumsite_stage_duration_seconds")
	assert.Contains(t, names, "forumsite_entities")
	assert.Contains(t, names, "forumsite_pages_written_total")
}

func TestPrometheusRecorderTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome("warning")

	path := filepath.Join(t.TempDir(), "forumsite.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `forumsite_build_outcomes_total{outcome="warning"} 1`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.IncBuildOutcome("success")
	r.SetEntityCount("members", 1)
	r.AddPagesWritten("homepage", 1)
}
