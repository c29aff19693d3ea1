// Package model evaluates the trained risk pipeline: a fitted
// preprocessor followed by a binary classifier, both read from a JSON
// artifact exported from the training notebook.
//
// Tree models also implement Attributor, which returns exact Tree SHAP
// contributions. Waterfall orders and truncates those contributions for
// display. Linear models do not implement Attributor; callers detect this
// with a type assertion and show a notice instead of a chart.
package model
