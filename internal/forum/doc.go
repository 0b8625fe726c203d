// Package forum holds the in-memory entity store built from a forum export.
//
// A Store is populated once per run, either by a Loader walking the export
// directory or from the incremental cache, and is read-only afterwards.
// Lookups are total: unknown members resolve to "User {id}" and unknown
// categories to "Uncategorized".
package forum
