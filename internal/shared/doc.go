// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage captures slog output for assertions and builds
// student fixtures and in-memory workbooks for tests.
package shared
