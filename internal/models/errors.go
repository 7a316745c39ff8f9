package models

import "errors"

// Custom errors
var (
	// ErrMalformedPlay indicates a play record is missing or violates a required field
	ErrMalformedPlay = errors.New("malformed play record")

	// ErrInsufficientClasses indicates training data has fewer than 2 distinct labels
	ErrInsufficientClasses = errors.New("insufficient distinct labels for training")

	// ErrMissingColumns indicates required feature columns are absent from the dataset
	ErrMissingColumns = errors.New("required feature columns missing")

	// ErrModelNotLoaded indicates inference was attempted before a model was trained or loaded
	ErrModelNotLoaded = errors.New("model not trained or loaded")

	// ErrInvalidModelArtifact indicates a persisted model blob is missing required fields
	ErrInvalidModelArtifact = errors.New("invalid model artifact")

	ErrNotFound = errors.New("record not found")
)
