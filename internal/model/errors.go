package model

import "errors"

var (
	// ErrInvalidArtifact is returned when a pipeline artifact is structurally unusable.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrMissingColumn is returned when the record lacks a column the preprocessor needs.
	ErrMissingColumn = errors.New("columns are missing")
	// ErrShapeMismatch is returned when a feature vector has the wrong length.
	ErrShapeMismatch = errors.New("feature shape mismatch")
	// ErrNotAttributable is returned when attribution is requested from a model that cannot provide it.
	ErrNotAttributable = errors.New("model does not support per-feature attribution")
)
