package site

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/forumsite/internal/metrics"
)

// BuildOutcome is the final result state of a run.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageResult classifies how a stage ended.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
	StageResultSkipped  StageResult = "skipped"
)

// BuildReport captures what a run did.
type BuildReport struct {
	SchemaVersion  int
	RunID          string
	Mode           string
	Start          time.Time
	End            time.Time
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Discussions    int
	Comments       int
	Members        int
	Categories     int
	Pages          map[string]int // output files written by kind
	Warnings       []string
	Errors         []string
	Outcome        BuildOutcome
}

func newBuildReport(mode string) *BuildReport {
	return &BuildReport{
		SchemaVersion:  1,
		RunID:          uuid.NewString(),
		Mode:           mode,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
		Pages:          make(map[string]int),
	}
}

// AddWarning records a non-fatal issue.
func (r *BuildReport) AddWarning(msg string) { r.Warnings = append(r.Warnings, msg) }

// PagesWritten returns the total number of output files written.
func (r *BuildReport) PagesWritten() int {
	n := 0
	for _, c := range r.Pages {
		n += c
	}
	return n
}

func (r *BuildReport) recordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	r.StageResults[stage] = res
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
}

func (r *BuildReport) finish(err error) {
	r.End = time.Now()
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		r.Outcome = OutcomeCanceled
	case err != nil:
		r.Errors = append(r.Errors, err.Error())
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("run=%s mode=%s discussions=%d comments=%d members=%d pages=%d duration=%s warnings=%d outcome=%s",
		r.RunID, r.Mode, r.Discussions, r.Comments, r.Members, r.PagesWritten(),
		dur.Truncate(time.Millisecond), len(r.Warnings), r.Outcome)
}

type serializableReport struct {
	SchemaVersion  int               `json:"schema_version"`
	RunID          string            `json:"run_id"`
	Mode           string            `json:"mode"`
	Start          time.Time         `json:"start"`
	End            time.Time         `json:"end"`
	DurationMS     int64             `json:"duration_ms"`
	StageDurations map[string]int64  `json:"stage_durations_ms"`
	StageResults   map[string]string `json:"stage_results"`
	Discussions    int               `json:"discussions"`
	Comments       int               `json:"comments"`
	Members        int               `json:"members"`
	Categories     int               `json:"categories"`
	Pages          map[string]int    `json:"pages"`
	Warnings       []string          `json:"warnings,omitempty"`
	Errors         []string          `json:"errors,omitempty"`
	Outcome        BuildOutcome      `json:"outcome"`
}

func (r *BuildReport) serializable() serializableReport {
	s := serializableReport{
		SchemaVersion:  r.SchemaVersion,
		RunID:          r.RunID,
		Mode:           r.Mode,
		Start:          r.Start,
		End:            r.End,
		DurationMS:     r.End.Sub(r.Start).Milliseconds(),
		StageDurations: make(map[string]int64, len(r.StageDurations)),
		StageResults:   make(map[string]string, len(r.StageResults)),
		Discussions:    r.Discussions,
		Comments:       r.Comments,
		Members:        r.Members,
		Categories:     r.Categories,
		Pages:          r.Pages,
		Warnings:       r.Warnings,
		Errors:         r.Errors,
		Outcome:        r.Outcome,
	}
	for k, v := range r.StageDurations {
		s.StageDurations[string(k)] = v.Milliseconds()
	}
	for k, v := range r.StageResults {
		s.StageResults[string(k)] = string(v)
	}
	return s
}

// Persist writes build-report.json and build-report.txt into root.
func (r *BuildReport) Persist(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, "build-report.json"), jb); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(root, "build-report.txt"), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
