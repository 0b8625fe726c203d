package site

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/forumsite/internal/linkverify"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
)

// stageVerifyAnchors reports in-page links without a target on the
// discussion pages written this run. It never fails the run.
func stageVerifyAnchors(_ context.Context, rc *RenderContext) error {
	total := 0
	for _, rel := range rc.rendered {
		data, err := os.ReadFile(filepath.Join(rc.out, filepath.FromSlash(rel)))
		if err != nil {
			rc.warn(StageVerifyAnchors, "cannot read rendered page", logfields.Path(rel), logfields.Error(err))
			continue
		}
		dangling, err := linkverify.VerifyAnchors(rel, bytes.NewReader(data))
		if err != nil {
			rc.warn(StageVerifyAnchors, "cannot parse rendered page", logfields.Path(rel), logfields.Error(err))
			continue
		}
		for _, d := range dangling {
			rc.report.AddWarning(string(StageVerifyAnchors) + ": " + d.String())
		}
		total += len(dangling)
	}
	if total > 0 {
		rc.logger.Warn("Dangling in-page anchors", logfields.Count(total))
	}
	return nil
}
