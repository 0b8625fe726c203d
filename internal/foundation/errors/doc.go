// Package errors provides the classified error primitives used across forumsite.
//
// A ClassifiedError carries a category (what part of the run failed), a severity
// (whether the run can continue) and free-form context. The CLI adapter turns
// them into exit codes and operator-facing messages.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryCache, "cache file unreadable").
//		Fatal().
//		WithContext("path", cachePath).
//		Build()
package errors
