package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID        = "run_id"
	KeyMode         = "mode"
	KeyStage        = "stage"
	KeyDurationMS   = "duration_ms"
	KeyPath         = "path"
	KeyCount        = "count"
	KeyDiscussionID = "discussion_id"
	KeyCommentID    = "comment_id"
	KeyUserID       = "user_id"
	KeyCategoryID   = "category_id"
	KeyChunk        = "chunk"
	KeyBackend      = "backend"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DiscussionID(id int) slog.Attr   { return slog.Int(KeyDiscussionID, id) }
func CommentID(id int) slog.Attr      { return slog.Int(KeyCommentID, id) }
func UserID(id int) slog.Attr         { return slog.Int(KeyUserID, id) }
func CategoryID(id int) slog.Attr     { return slog.Int(KeyCategoryID, id) }
func Chunk(n int) slog.Attr           { return slog.Int(KeyChunk, n) }
func Backend(b string) slog.Attr      { return slog.String(KeyBackend, b) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
