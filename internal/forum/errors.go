package forum

import "errors"

var (
	// ErrMissingField indicates an export record lacks a required field.
	ErrMissingField = errors.New("required field missing")

	// ErrSourceNotFound indicates an export subdirectory or file does not exist.
	ErrSourceNotFound = errors.New("export source not found")
)
