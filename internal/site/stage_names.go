package site

import "context"

// StageName is a strongly-typed identifier for a generation stage.
type StageName string

// Canonical stage names.
const (
	StagePrepareOutput     StageName = "prepare_output"
	StageLoadTemplates     StageName = "load_templates"
	StageIngest            StageName = "ingest"
	StageSaveCache         StageName = "save_cache"
	StageLoadCache         StageName = "load_cache"
	StageRenderDiscussions StageName = "render_discussions"
	StageRebuildMetadata   StageName = "rebuild_metadata"
	StageVerifyAnchors     StageName = "verify_anchors"
	StageCopyAssets        StageName = "copy_assets"
	StageUserData          StageName = "user_data"
	StageUserChunks        StageName = "user_chunks"
	StageStaticPages       StageName = "static_pages"
	StageInfoPages         StageName = "info_pages"
	StageHomepage          StageName = "homepage"
	StageSearch            StageName = "search"
)

// Stage is the executing function of a stage.
type Stage func(ctx context.Context, rc *RenderContext) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}
