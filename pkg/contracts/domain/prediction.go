package domain

import "time"

// RiskClass is the thresholded outcome of a prediction.
type RiskClass string

const (
	RiskHigh RiskClass = "high"
	RiskLow  RiskClass = "low"
)

// Prediction is the scored result for one student.
type Prediction struct {
	ID             string         `json:"id"`
	Probability    float64        `json:"probability"`
	Threshold      float64        `json:"threshold"`
	Risk           RiskClass      `json:"risk"`
	HighRisk       bool           `json:"high_risk"`
	Headline       string         `json:"headline"`
	Recommendation string         `json:"recommendation"`
	Model          ModelInfo      `json:"model"`
	Prepared       map[string]any `json:"prepared"`
	Explanation    *Explanation   `json:"explanation,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ModelInfo identifies the model that produced a prediction.
type ModelInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Explanation is the per-feature attribution of a prediction. When the
// model cannot be attributed, Supported is false and Notice says why.
type Explanation struct {
	Supported   bool             `json:"supported"`
	Notice      string           `json:"notice,omitempty"`
	Error       string           `json:"error,omitempty"`
	Space       string           `json:"space,omitempty"`
	BaseValue   float64          `json:"base_value"`
	OutputValue float64          `json:"output_value"`
	Steps       []WaterfallStep  `json:"steps,omitempty"`
	Mapping     []FeatureMapping `json:"mapping,omitempty"`
}

// WaterfallStep is one bar of the attribution chart.
type WaterfallStep struct {
	Feature      string   `json:"feature,omitempty"`
	Label        string   `json:"label"`
	Value        *float64 `json:"value,omitempty"`
	Contribution float64  `json:"contribution"`
	Start        float64  `json:"start"`
	End          float64  `json:"end"`
	Aggregated   int      `json:"aggregated,omitempty"`
}

// FeatureMapping pairs a transformed feature with its display label and value.
type FeatureMapping struct {
	Technical  string  `json:"technical"`
	Translated string  `json:"translated"`
	Value      float64 `json:"value"`
}
