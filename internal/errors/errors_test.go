package errors

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
		code   string
	}{
		{"invalid request", InvalidRequestWithError(stderrors.New("unexpected EOF")), http.StatusBadRequest, "INVALID_REQUEST"},
		{"validation", ErrValidation("max_display", "must be between 1 and 50"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", NotFoundError("row 7"), http.StatusNotFound, "NOT_FOUND"},
		{"spreadsheet", SpreadsheetError(stderrors.New("zip: not a valid zip file")), http.StatusUnprocessableEntity, "SPREADSHEET_UNREADABLE"},
		{"validation list", NewValidationErrors([]ValidationError{{Field: "idade", Message: "idade is required"}}), http.StatusBadRequest, "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
			assert.Equal(t, tt.err.Message, tt.err.Error())
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrUnsupportedMediaType)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":{"status_code":415,"error_code":"UNSUPPORTED_MEDIA_TYPE","message":"Unsupported content type"}}`, rec.Body.String())
}

func TestWithDetailsLeavesPredefinedErrorAlone(t *testing.T) {
	err := ErrRowNotFound.WithDetails("row 9 of 3")

	assert.Equal(t, "row 9 of 3", err.Details)
	assert.Equal(t, ErrRowNotFound.ErrorCode, err.ErrorCode)
	assert.Nil(t, ErrRowNotFound.Details)

	nf := NotFoundError("Metrics exporter")
	assert.Equal(t, "Metrics exporter not found", nf.Message)
	assert.Equal(t, "Resource not found", ErrNotFound.Message)
}

func TestAppError(t *testing.T) {
	cause := stderrors.New("sheet \"2024\" missing")
	err := NewParsingError("cannot read workbook", cause).WithContext("sheet", "2024")

	assert.Equal(t, `[PARSING] cannot read workbook: sheet "2024" missing`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "2024", err.Context["sheet"])

	var target *AppError
	require.ErrorAs(t, error(NewNotFoundError("row 3", nil)), &target)
	assert.Equal(t, ErrTypeNotFound, target.Type)
	assert.Equal(t, "[NOT_FOUND] row 3 not found", target.Error())
}

func TestProblemDetailsMarshal(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/api/v1/predict").
		WithExtension("error_code", "VALIDATION_FAILED").
		WithExtension("status", "ignored")

	data, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"/errors/validation","title":"Bad Request","status":400,"instance":"/api/v1/predict","error_code":"VALIDATION_FAILED"}`, string(data))
}
