// Package http implements the HTTP handlers of the risk predictor: the
// HTML form a coordinator fills in for one student, and the JSON API
// behind it.
//
// Handlers stay thin. They parse and validate the request, call the
// prediction service and render the result, leaving preparation, scoring
// and attribution to internal/services.
//
// # Routes
//
//	GET  /                              form
//	POST /predict                       form submit, result page
//	POST /api/v1/predictions            score one record
//	POST /api/v1/records/normalize      prepare without scoring
//	POST /api/v1/records/import         one row of an .xlsx upload
//	POST /api/v1/features/translate     technical names to labels
//	GET  /api/v1/model                  active model summary
//	GET  /api/health[/ready|/live]      health checks
//	GET  /api/version                   build information
//	GET  /metrics                       Prometheus scrape
//
// # Error Handling
//
// JSON endpoints answer with RFC 7807 problem documents produced by
// internal/errors:
//
//	{
//	    "type": "/errors/model/unavailable",
//	    "title": "Service Unavailable",
//	    "status": 503,
//	    "detail": "O modelo não foi carregado corretamente.",
//	    "instance": "/api/v1/predictions"
//	}
//
// The form never shows a problem document. Validation failures re-render
// the form with the messages next to the fields, and service failures are
// shown in-page with the same user-facing text.
package http
