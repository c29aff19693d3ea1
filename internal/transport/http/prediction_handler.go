package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "defasagem/internal/errors"
	"defasagem/internal/features"
	"defasagem/internal/middleware"
	"defasagem/internal/services"
	"defasagem/internal/sheet"
	"defasagem/internal/validation"
	api "defasagem/pkg/contracts/api/v1"
)

// uploadField is the multipart field carrying the workbook.
const uploadField = "file"

// maxImportRow bounds the row query parameter of the import endpoint.
const maxImportRow = 100000

// PredictionHandler serves the JSON prediction API with RFC 7807 errors
type PredictionHandler struct {
	service      PredictionServiceInterface
	validator    *middleware.Validator
	query        *middleware.QueryParamValidator
	files        *validation.FileValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
	maxUpload    int64
}

// NewPredictionHandler creates a new prediction handler. maxUpload bounds
// spreadsheet uploads in bytes.
func NewPredictionHandler(service PredictionServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger, maxUpload int64) *PredictionHandler {
	return &PredictionHandler{
		service:      service,
		validator:    validator,
		query:        middleware.NewQueryParamValidator(errorHandler),
		files:        validation.NewFileValidator(logger),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "prediction_handler")),
		maxUpload:    maxUpload,
	}
}

// Routes returns the prediction API routes
func (h *PredictionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeValidator("application/json"))
		r.Post("/predictions", h.CreatePrediction)
		r.Post("/records/normalize", h.NormalizeRecord)
		r.Post("/features/translate", h.TranslateFeatures)
	})

	r.With(middleware.ContentTypeValidator("multipart/form-data")).
		Post("/records/import", h.ImportRecord)

	r.Get("/model", h.GetModel)

	return r
}

// CreatePrediction handles POST /api/v1/predictions
func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	var req api.PredictRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}

	pred, err := h.service.Predict(r.Context(), services.RecordFromRequest(req))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.PredictResponse{Prediction: pred})
}

// NormalizeRecord handles POST /api/v1/records/normalize
func (h *PredictionHandler) NormalizeRecord(w http.ResponseWriter, r *http.Request) {
	var req api.NormalizeRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}

	prepared := h.service.Normalize(r.Context(), features.RecordFrom(req.Record))

	render.JSON(w, r, api.NormalizeResponse{
		Record:  prepared.Map(),
		Columns: prepared.Columns(),
	})
}

// TranslateFeatures handles POST /api/v1/features/translate
func (h *PredictionHandler) TranslateFeatures(w http.ResponseWriter, r *http.Request) {
	var req api.TranslateRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}

	render.JSON(w, r, api.TranslateResponse{Labels: h.service.Translate(req.Names)})
}

// GetModel handles GET /api/v1/model
func (h *PredictionHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Model(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// ImportRecord handles POST /api/v1/records/import. It reads one row of an
// uploaded workbook and returns it as a raw record for pre-filling the form.
func (h *PredictionHandler) ImportRecord(w http.ResponseWriter, r *http.Request) {
	row, ok := h.query.ValidateInt(w, r, "row", 1, maxImportRow, 1)
	if !ok {
		return
	}

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(uploadField, "An .xlsx file is required"))
		return
	}
	defer file.Close()

	if err := h.files.ValidateSpreadsheet(header.Filename, file); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.SpreadsheetError(err))
		return
	}

	sheetName := r.URL.Query().Get("sheet")
	res, err := sheet.ReadRecord(file, sheet.Options{Sheet: sheetName, Row: row}, h.logger)
	if err != nil {
		h.logger.InfoContext(r.Context(), "spreadsheet import rejected",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, importError(err, sheetName))
		return
	}

	render.JSON(w, r, api.ImportResponse{
		Sheet:   res.Sheet,
		Row:     res.Row,
		Record:  res.Record.Map(),
		Ignored: res.Ignored,
	})
}

func importError(err error, sheetName string) error {
	switch {
	case errors.Is(err, sheet.ErrRowNotFound):
		return apierrors.ErrRowNotFound.WithDetails(err.Error())
	case errors.Is(err, sheet.ErrSheetNotFound):
		return apierrors.NewNotFoundError("Sheet", err).WithContext("sheet", sheetName)
	case errors.Is(err, sheet.ErrNoHeader):
		return apierrors.NewParsingError("No sheet has a header row with an idade column", err)
	default:
		return apierrors.SpreadsheetError(err)
	}
}
