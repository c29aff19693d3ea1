package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"defasagem/internal/chart"
	apierrors "defasagem/internal/errors"
	"defasagem/internal/features"
	"defasagem/internal/middleware"
	"defasagem/internal/services"
	api "defasagem/pkg/contracts/api/v1"
	"defasagem/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// defaultAge is the age pre-filled in a blank form.
const defaultAge = "12"

// formField is one numeric input of the form.
type formField struct {
	Name    string
	Label   string
	Max     string
	Integer bool
}

// formGroup is a block of inputs, optionally folded under a summary.
type formGroup struct {
	Summary string
	Fields  []formField
}

// formSection is a numbered section of the form.
type formSection struct {
	Title  string
	Hint   string
	Groups []formGroup
}

func score(name, label string) formField { return formField{Name: name, Label: label, Max: "10"} }

// scoreSections are sections 2 to 4 of the form. Section 1 holds the
// required fields and is laid out by the template.
var scoreSections = []formSection{
	{
		Title: "2. Notas Acadêmicas",
		Hint:  "Deixe em branco caso o aluno não possua a nota.",
		Groups: []formGroup{{Fields: []formField{
			score(features.ColMath, "Matemática (MAT)"),
			score(features.ColPortuguese, "Português (POR)"),
			score(features.ColEnglish, "Inglês (ING)"),
		}}},
	},
	{
		Title: "3. Indicadores (Comportamental e Geral)",
		Groups: []formGroup{
			{Fields: []formField{
				score(features.ColIAA, "Ind. Autoavaliação (IAA)"),
				score(features.ColIPS, "Ind. Psicossocial (IPS)"),
				score(features.ColIEG, "Ind. Engajamento (IEG)"),
				score(features.ColIPP, "Ind. Psicopedagógico (IPP)"),
				score(features.ColINDE2024, "INDE Atual"),
			}},
			{Summary: "Histórico de INDE (Opcional - para calcular evolução)", Fields: []formField{
				score(features.ColINDE2022, "INDE de 2 anos atrás"),
				score(features.ColINDE2023, "INDE do ano passado"),
			}},
		},
	},
	{
		Title: "4. Indicadores Avançados",
		Groups: []formGroup{{Summary: "Preencha se possuir os dados (Importante para a precisão)", Fields: []formField{
			score(features.ColIDA, "Ind. Desemp. Acad. (IDA)"),
			score(features.ColIPV, "Ponto de Virada (IPV)"),
			{Name: features.ColEvaluations, Label: "Nº de Avaliações", Max: "50", Integer: true},
		}}},
	},
}

// modelCaption describes the active model under the title.
type modelCaption struct {
	Name      string
	Threshold float64
}

// resultView is the analysis shown below the form after a submit.
type resultView struct {
	HighRisk         bool
	Headline         string
	Recommendation   string
	Probability      string
	Chart            string
	Notice           string
	ExplanationError string
	Mapping          []domain.FeatureMapping
}

type pageView struct {
	Caption     *modelCaption
	ModelError  string
	Phases      []string
	Genders     []string
	Sections    []formSection
	Form        map[string]string
	FieldErrors map[string]string
	Error       string
	Result      *resultView
}

// FormHandler serves the HTML form and its result page
type FormHandler struct {
	service   PredictionServiceInterface
	validator *middleware.Validator
	templates *template.Template
	logger    *slog.Logger
}

// NewFormHandler parses the embedded templates and creates the handler.
func NewFormHandler(service PredictionServiceInterface, validator *middleware.Validator, logger *slog.Logger) (*FormHandler, error) {
	tmpl, err := template.New("pages").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &FormHandler{
		service:   service,
		validator: validator,
		templates: tmpl,
		logger:    logger.With(slog.String("component", "form_handler")),
	}, nil
}

// Routes returns the form routes
func (h *FormHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ShowForm)
	r.Post("/predict", h.SubmitForm)
	return r
}

// ShowForm handles GET /
func (h *FormHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r)
	page.Form[features.ColAge] = defaultAge
	page.Form[features.ColGender] = api.GenderLabels[0]
	page.Form[features.ColIdealPhase] = api.PhaseLabels[0]
	h.render(w, r, http.StatusOK, page)
}

// SubmitForm handles POST /predict
func (h *FormHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r)

	if err := r.ParseForm(); err != nil {
		page.Error = "Não foi possível ler o formulário enviado."
		h.render(w, r, http.StatusBadRequest, page)
		return
	}
	for _, name := range features.InputColumns {
		page.Form[name] = strings.TrimSpace(r.PostForm.Get(name))
	}

	req, fieldErrors := parseForm(page.Form)
	if len(fieldErrors) == 0 {
		fieldErrors = h.validationMessages(req)
	}
	if len(fieldErrors) > 0 {
		page.FieldErrors = fieldErrors
		h.render(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	pred, err := h.service.Predict(r.Context(), services.RecordFromRequest(req))
	if err != nil {
		status := http.StatusInternalServerError
		page.Error = services.MessageTechnicalError
		if errors.Is(err, services.ErrModelUnavailable) {
			status = http.StatusServiceUnavailable
			page.Error = services.MessageModelUnavailable
		}
		h.render(w, r, status, page)
		return
	}

	page.Result = h.result(r, pred)
	h.render(w, r, http.StatusOK, page)
}

func (h *FormHandler) newPage(r *http.Request) *pageView {
	page := &pageView{
		Phases:      api.PhaseLabels,
		Genders:     api.GenderLabels,
		Sections:    scoreSections,
		Form:        make(map[string]string, len(features.InputColumns)),
		FieldErrors: map[string]string{},
	}
	summary, err := h.service.Model(r.Context())
	if err != nil {
		page.ModelError = services.MessageModelUnavailable
		return page
	}
	page.Caption = &modelCaption{Name: summary.Name, Threshold: summary.Threshold}
	return page
}

func (h *FormHandler) result(r *http.Request, pred *domain.Prediction) *resultView {
	res := &resultView{
		HighRisk:       pred.HighRisk,
		Headline:       pred.Headline,
		Recommendation: pred.Recommendation,
		Probability:    fmt.Sprintf("%.1f%%", pred.Probability*100),
	}

	exp := pred.Explanation
	switch {
	case exp == nil:
	case !exp.Supported:
		res.Notice = exp.Notice
	case exp.Error != "":
		res.ExplanationError = exp.Error
	default:
		page, err := chart.WaterfallHTML(exp)
		if err != nil {
			h.logger.WarnContext(r.Context(), "Waterfall chart failed",
				slog.String("prediction_id", pred.ID),
				slog.String("error", err.Error()))
			res.ExplanationError = services.MessageExplanationError
			break
		}
		res.Chart = string(page)
		res.Mapping = exp.Mapping
	}
	return res
}

// validationMessages runs the struct rules and returns one message per field.
func (h *FormHandler) validationMessages(req api.PredictRequest) map[string]string {
	err := h.validator.ValidateStruct(&req)
	if err == nil {
		return nil
	}

	msgs := map[string]string{}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if details, ok := apiErr.Details.(apierrors.ValidationErrors); ok {
			for _, fe := range details.Errors {
				msgs[fe.Field] = fe.Message
			}
			return msgs
		}
	}
	msgs[features.ColAge] = err.Error()
	return msgs
}

// parseForm converts submitted text into a request. Blank optional fields
// stay nil; unparsable numbers are reported per field.
func parseForm(form map[string]string) (api.PredictRequest, map[string]string) {
	errs := map[string]string{}
	req := api.PredictRequest{
		Genero:    form[features.ColGender],
		FaseIdeal: form[features.ColIdealPhase],
	}

	if age := form[features.ColAge]; age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			errs[features.ColAge] = "Informe a idade em anos completos."
		}
		req.Idade = n
	}

	optional := map[string]**float64{
		features.ColMath:       &req.Mat,
		features.ColPortuguese: &req.Por,
		features.ColEnglish:    &req.Ing,
		features.ColIAA:        &req.IAA,
		features.ColIEG:        &req.IEG,
		features.ColIPS:        &req.IPS,
		features.ColIPP:        &req.IPP,
		features.ColINDE2022:   &req.INDE2022,
		features.ColINDE2023:   &req.INDE2023,
		features.ColINDE2024:   &req.INDE2024,
		features.ColIDA:        &req.IDA,
		features.ColIPV:        &req.IPV,
	}
	for name, dst := range optional {
		raw := form[name]
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs[name] = "Valor numérico inválido."
			continue
		}
		*dst = &f
	}

	if raw := form[features.ColEvaluations]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs[features.ColEvaluations] = "Informe um número inteiro."
		} else {
			req.NAv = &n
		}
	}

	return req, errs
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, page *pageView) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		h.logger.ErrorContext(r.Context(), "Template execution failed", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
