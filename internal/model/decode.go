package model

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// FormatVersion is the artifact layout this package reads.
const FormatVersion = 1

type artifact struct {
	FormatVersion int             `json:"format_version"`
	Name          string          `json:"name"`
	Prep          *Preprocessor   `json:"prep"`
	Model         json.RawMessage `json:"model"`
}

type treeModel struct {
	BaseScore float64         `json:"base_score"`
	Trees     []*DecisionTree `json:"trees"`
}

// Decode builds a Pipeline from its JSON artifact.
func Decode(data []byte) (*Pipeline, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if a.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format_version %d", ErrInvalidArtifact, a.FormatVersion)
	}
	if a.Prep == nil || a.Prep.NumFeatures() == 0 {
		return nil, fmt.Errorf("%w: preprocessor produces no features", ErrInvalidArtifact)
	}
	if err := a.Prep.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	kind := gjson.GetBytes(a.Model, "kind").String()
	nFeatures := a.Prep.NumFeatures()
	var clf Classifier
	switch kind {
	case KindLogisticRegression:
		var m LogisticRegression
		if err := json.Unmarshal(a.Model, &m); err != nil {
			return nil, fmt.Errorf("%w: model: %v", ErrInvalidArtifact, err)
		}
		if len(m.Coef) != nFeatures {
			return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidArtifact, len(m.Coef), nFeatures)
		}
		clf = &m
	case KindDecisionTree, KindRandomForest, KindGradientBoosting:
		var m treeModel
		if err := json.Unmarshal(a.Model, &m); err != nil {
			return nil, fmt.Errorf("%w: model: %v", ErrInvalidArtifact, err)
		}
		ens, err := NewTreeEnsemble(kind, m.Trees, m.BaseScore, nFeatures)
		if err != nil {
			return nil, err
		}
		clf = ens
	default:
		return nil, fmt.Errorf("%w: unsupported model kind %q", ErrInvalidArtifact, kind)
	}

	return &Pipeline{Name: a.Name, Prep: a.Prep, Classifier: clf}, nil
}
