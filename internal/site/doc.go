// Package site generates the static forum site.
//
// A Generator runs an ordered list of stages against one RenderContext.
// Full runs ingest the export, save the incremental cache and render one
// page per discussion; html-only runs restore the store from the cache and
// rebuild discussion metadata without rendering. Both modes then produce
// the derived pages: homepage, search, user data, about, your-posts and
// informational pages.
package site
