// Package dm exports the private-message conversations of one member as
// plain-text files: one per conversation plus a combined file.
package dm
