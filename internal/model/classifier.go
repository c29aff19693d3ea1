package model

import (
	"fmt"
	"math"
)

// Classifier kinds as they appear in the artifact's model.kind field.
const (
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
	KindRandomForest       = "random_forest"
	KindGradientBoosting   = "gradient_boosting"
)

// Classifier scores a transformed feature vector.
type Classifier interface {
	Kind() string
	NumFeatures() int
	// PredictProba returns the probability of the positive class.
	PredictProba(x []float64) (float64, error)
}

// Attributor is implemented by classifiers that can split a prediction
// into per-feature contributions.
type Attributor interface {
	Attribute(x []float64) (Attribution, error)
}

// Space identifies the unit of an Attribution.
type Space string

const (
	SpaceProbability Space = "probability"
	SpaceLogOdds     Space = "log_odds"
)

// Attribution holds one contribution per transformed feature. BaseValue
// plus the sum of Values equals Output.
type Attribution struct {
	BaseValue float64   `json:"base_value"`
	Values    []float64 `json:"values"`
	Output    float64   `json:"output"`
	Space     Space     `json:"space"`
}

// LogisticRegression is a linear classifier over the transformed vector.
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (m *LogisticRegression) Kind() string { return KindLogisticRegression }

func (m *LogisticRegression) NumFeatures() int { return len(m.Coef) }

func (m *LogisticRegression) PredictProba(x []float64) (float64, error) {
	if len(x) != len(m.Coef) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrShapeMismatch, len(x), len(m.Coef))
	}
	z := m.Intercept
	for i, c := range m.Coef {
		if math.IsNaN(x[i]) {
			return 0, fmt.Errorf("input contains NaN at feature %d", i)
		}
		z += c * x[i]
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
