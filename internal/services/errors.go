package services

import "errors"

// Prediction service errors
var (
	// ErrModelUnavailable means the model artifacts could not be loaded.
	// The process keeps serving; a later request retries the load.
	ErrModelUnavailable = errors.New("model is not loaded")

	// ErrPredictionFailed wraps any failure while scoring a prepared record.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrExplanationFailed wraps a failure while attributing a prediction.
	// The prediction itself is still returned.
	ErrExplanationFailed = errors.New("explanation failed")

	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")
)
