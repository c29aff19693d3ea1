// Package app wires the lag-risk predictor together and manages its
// lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, then the YAML file, then environment)
//  2. Initialize structured logging and OpenTelemetry
//  3. Create the model store and the prediction and health services
//  4. Build the chi router with the middleware chain, the JSON API under
//     /api and the HTML form at /
//  5. Start the HTTP server, loading the model artifacts first
//
// A model that cannot be loaded does not stop the server. Every page and
// endpoint keeps answering, predictions fail with 503 and the readiness
// probe reports not_ready until the artifacts appear.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
