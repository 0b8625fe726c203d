package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/forumsite/internal/config"
	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
)

var outputDirs = map[config.RunMode][]string{
	config.RunModeFull:     {"discussions", "assets/css", "assets/js", "assets/img"},
	config.RunModeHTMLOnly: {"assets/js"},
}

func stagePrepareOutput(_ context.Context, rc *RenderContext) error {
	for _, dir := range outputDirs[config.RunMode(rc.report.Mode)] {
		path := filepath.Join(rc.out, filepath.FromSlash(dir))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot create output directory").
				Fatal().WithContext("path", path).Build()
		}
	}
	return nil
}

func stageLoadTemplates(_ context.Context, rc *RenderContext) error {
	return rc.renderer.Preload()
}

func stageIngest(ctx context.Context, rc *RenderContext) error {
	loader := forum.NewLoader(rc.cfg.ExportPath, rc.cfg.ExcludedCategories, rc.logger)
	store, ingest, err := loader.LoadForum(ctx)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "ingestion interrupted").Build()
	}
	rc.setStore(store)
	for _, w := range ingest.Warnings {
		rc.report.AddWarning(fmt.Sprintf("%s: %v", StageIngest, w))
	}
	for categoryID, n := range ingest.Excluded {
		rc.logger.Info("Excluded discussions", logfields.CategoryID(categoryID), logfields.Count(n))
	}
	if len(store.Discussions()) == 0 {
		rc.logger.Warn("No discussions loaded, check the export path", logfields.Path(rc.cfg.ExportPath))
	}
	return nil
}

func stageSaveCache(ctx context.Context, rc *RenderContext) error {
	if err := rc.cache.Save(ctx, rc.store); err != nil {
		return err
	}
	rc.logger.Info("Saved incremental cache", logfields.Path(rc.cache.Location()), logfields.Backend(rc.cache.Backend()))
	return nil
}

func stageLoadCache(ctx context.Context, rc *RenderContext) error {
	store, err := rc.cache.Load(ctx)
	if err != nil {
		return err
	}
	rc.setStore(store)
	rc.logger.Info("Loaded incremental cache",
		logfields.Path(rc.cache.Location()),
		logfields.Count(len(store.Discussions())))
	return nil
}

// stageRebuildMetadata recreates discussion metadata without rendering pages.
func stageRebuildMetadata(_ context.Context, rc *RenderContext) error {
	rc.metas = make([]DiscussionMeta, 0, len(rc.store.Discussions()))
	for _, d := range rc.store.Discussions() {
		rc.metas = append(rc.metas, MetaFor(rc.store, d))
	}
	return nil
}
