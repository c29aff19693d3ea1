// Package sheet imports a single student row from an .xlsx export so the
// form and the API can be pre-filled from the school's spreadsheets.
package sheet
