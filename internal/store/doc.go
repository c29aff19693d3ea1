// Package store owns the trained model artifacts: the pipeline JSON and
// the YAML config holding the decision threshold. Artifacts are validated
// against an embedded JSON Schema, decoded once, and then shared by every
// request.
package store
