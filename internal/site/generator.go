package site

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/forumsite/internal/cache"
	"git.home.luguber.info/inful/forumsite/internal/config"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
	"git.home.luguber.info/inful/forumsite/internal/metrics"
)

// Generator builds the site for one configuration.
type Generator struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	cache    cache.Cache
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.logger = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(g *Generator) { g.recorder = r } }

// WithCache overrides the cache built from configuration.
func WithCache(c cache.Cache) Option { return func(g *Generator) { g.cache = c } }

// NewGenerator creates a generator. It fails only on an unknown cache backend.
func NewGenerator(cfg *config.Config, opts ...Option) (*Generator, error) {
	g := &Generator{cfg: cfg, logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(g)
	}
	if g.cache == nil {
		c, err := cache.New(string(cfg.Cache.Backend), cfg.CacheDir())
		if err != nil {
			return nil, err
		}
		g.cache = c
	}
	return g, nil
}

// Stages returns the stage list for mode.
func (g *Generator) Stages(mode config.RunMode) []StageDef {
	var stages []StageDef
	if mode == config.RunModeHTMLOnly {
		stages = []StageDef{
			{StagePrepareOutput, stagePrepareOutput},
			{StageLoadTemplates, stageLoadTemplates},
			{StageLoadCache, stageLoadCache},
			{StageRebuildMetadata, stageRebuildMetadata},
		}
	} else {
		stages = []StageDef{
			{StagePrepareOutput, stagePrepareOutput},
			{StageLoadTemplates, stageLoadTemplates},
			{StageIngest, stageIngest},
		}
		if g.cfg.CacheEnabled() {
			stages = append(stages, StageDef{StageSaveCache, stageSaveCache})
		}
		stages = append(stages, StageDef{StageRenderDiscussions, stageRenderDiscussions})
		if g.cfg.AnchorVerification() {
			stages = append(stages, StageDef{StageVerifyAnchors, stageVerifyAnchors})
		}
	}
	return append(stages,
		StageDef{StageCopyAssets, stageCopyAssets},
		StageDef{StageUserData, stageUserData},
		StageDef{StageUserChunks, stageUserChunks},
		StageDef{StageStaticPages, stageStaticPages},
		StageDef{StageInfoPages, stageInfoPages},
		StageDef{StageHomepage, stageHomepage},
		StageDef{StageSearch, stageSearch},
	)
}

// Run executes a full or html-only generation. The returned report is
// always non-nil; it is also persisted to the output root when possible.
func (g *Generator) Run(ctx context.Context, mode config.RunMode) (*BuildReport, error) {
	report := newBuildReport(string(mode))
	logger := g.logger.With(logfields.RunID(report.RunID), logfields.Mode(string(mode)))
	rc := newRenderContext(g.cfg, g.cache, logger, g.recorder, report)

	logger.Info("Starting generation",
		slog.String("export", g.cfg.ExportPath),
		slog.String("output", g.cfg.OutputPath),
		logfields.Backend(g.cache.Backend()))

	err := runStages(ctx, rc, g.Stages(mode))
	report.finish(err)
	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	g.recorder.IncBuildOutcome(string(report.Outcome))

	if perr := report.Persist(g.cfg.OutputPath); perr != nil {
		logger.Warn("Failed to persist build report", logfields.Error(perr))
	}
	logger.Info("Generation finished",
		slog.String("outcome", string(report.Outcome)),
		slog.Int("pages", report.PagesWritten()),
		slog.Int("warnings", len(report.Warnings)),
		logfields.DurationMS(float64(report.End.Sub(report.Start))/float64(time.Millisecond)))
	return report, err
}
