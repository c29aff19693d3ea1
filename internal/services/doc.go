// Package services implements the business logic between the HTTP
// handlers and the model.
//
// PredictionService is the single entry point for scoring a student:
//
//	pred, err := svc.Predict(ctx, raw)
//	switch {
//	case errors.Is(err, services.ErrModelUnavailable):
//	    // show MessageModelUnavailable, keep serving
//	case errors.Is(err, services.ErrPredictionFailed):
//	    // show MessageTechnicalError
//	}
//
// A prediction whose attribution fails is still returned; the failure is
// carried in pred.Explanation.Error. HealthService reports liveness and
// readiness, where readiness requires the model artifacts to load.
package services
