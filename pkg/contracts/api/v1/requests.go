// Package api contains the JSON contract of the risk predictor.
// Version v1 represents the current stable API version.
package api

import "defasagem/pkg/contracts/domain"

// PhaseLabels are the accepted values of fase_ideal, in display order.
var PhaseLabels = []string{"Alfa", "Fase 1", "Fase 2", "Fase 3", "Fase 4", "Fase 5", "Fase 6", "Fase 7", "Fase 8"}

// GenderLabels are the gender choices offered by the form.
var GenderLabels = []string{"Menino", "Menina"}

// PredictRequest is one student's raw indicators. Optional indicators are
// pointers; nil means the value is unknown.
type PredictRequest struct {
	Idade     int      `json:"idade" validate:"required,gte=6,lte=30"`
	Genero    string   `json:"genero" validate:"required,oneof=Menino Menina masculino feminino"`
	FaseIdeal string   `json:"fase_ideal" validate:"required,oneof=Alfa 'Fase 1' 'Fase 2' 'Fase 3' 'Fase 4' 'Fase 5' 'Fase 6' 'Fase 7' 'Fase 8'"`
	Mat       *float64 `json:"mat,omitempty" validate:"omitempty,gte=0,lte=10"`
	Por       *float64 `json:"por,omitempty" validate:"omitempty,gte=0,lte=10"`
	Ing       *float64 `json:"ing,omitempty" validate:"omitempty,gte=0,lte=10"`
	IAA       *float64 `json:"iaa,omitempty" validate:"omitempty,gte=0,lte=10"`
	IEG       *float64 `json:"ieg,omitempty" validate:"omitempty,gte=0,lte=10"`
	IPS       *float64 `json:"ips,omitempty" validate:"omitempty,gte=0,lte=10"`
	IPP       *float64 `json:"ipp,omitempty" validate:"omitempty,gte=0,lte=10"`
	INDE2022  *float64 `json:"inde_2022,omitempty" validate:"omitempty,gte=0,lte=10"`
	INDE2023  *float64 `json:"inde_2023,omitempty" validate:"omitempty,gte=0,lte=10"`
	INDE2024  *float64 `json:"inde_2024,omitempty" validate:"omitempty,gte=0,lte=10"`
	IDA       *float64 `json:"ida,omitempty" validate:"omitempty,gte=0,lte=10"`
	IPV       *float64 `json:"ipv,omitempty" validate:"omitempty,gte=0,lte=10"`
	NAv       *int     `json:"n_av,omitempty" validate:"omitempty,gte=0,lte=50"`
}

// PredictResponse wraps a prediction.
type PredictResponse struct {
	Prediction *domain.Prediction `json:"prediction"`
}

// NormalizeRequest carries a loosely typed record to be prepared without scoring.
type NormalizeRequest struct {
	Record map[string]any `json:"record" validate:"required"`
}

// NormalizeResponse is the prepared record. Missing values are null.
type NormalizeResponse struct {
	Record  map[string]any `json:"record"`
	Columns []string       `json:"columns"`
}

// TranslateRequest lists technical feature names.
type TranslateRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=500"`
}

// TranslateResponse holds the display labels, positionally matching the request.
type TranslateResponse struct {
	Labels []string `json:"labels"`
}

// ImportResponse is a single spreadsheet row mapped to record columns.
type ImportResponse struct {
	Sheet   string         `json:"sheet"`
	Row     int            `json:"row"`
	Record  map[string]any `json:"record"`
	Ignored []string       `json:"ignored_headers,omitempty"`
}
