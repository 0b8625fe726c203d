package site

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
)

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Stages returning a warning-severity ClassifiedError are
// recorded and the run continues. Cancellation is checked between stages only.
func runStages(ctx context.Context, rc *RenderContext, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			rc.report.recordStageResult(st.Name, StageResultCanceled, rc.recorder)
			return errors.WrapError(ctx.Err(), errors.CategoryRuntime, "generation canceled").
				WithContext("stage", string(st.Name)).Build()
		default:
		}

		rc.logger.Debug("Stage started", logfields.Stage(string(st.Name)))
		t0 := time.Now()
		err := st.Fn(ctx, rc)
		dur := time.Since(t0)
		rc.report.StageDurations[st.Name] = dur
		rc.recorder.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			rc.report.recordStageResult(st.Name, StageResultSuccess, rc.recorder)
			rc.logger.Info("Stage complete",
				logfields.Stage(string(st.Name)),
				logfields.DurationMS(float64(dur.Microseconds())/1000))
			continue
		}

		if ce, ok := errors.AsClassified(err); ok && ce.Severity() == errors.SeverityWarning {
			rc.report.recordStageResult(st.Name, StageResultWarning, rc.recorder)
			rc.warn(st.Name, ce.Error())
			continue
		}

		rc.report.recordStageResult(st.Name, StageResultFatal, rc.recorder)
		rc.logger.Error("Stage failed", logfields.Stage(string(st.Name)), logfields.Error(err),
			slog.Duration("elapsed", dur))
		return err
	}
	return nil
}
