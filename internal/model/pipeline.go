package model

import (
	"fmt"

	"defasagem/internal/features"
)

// Pipeline is the fitted preprocessing step followed by the classifier.
type Pipeline struct {
	Name       string
	Prep       *Preprocessor
	Classifier Classifier
}

// Transform runs the preprocessor on a prepared record.
func (p *Pipeline) Transform(r features.Record) ([]float64, error) {
	x, err := p.Prep.Transform(r)
	if err != nil {
		return nil, err
	}
	if len(x) != p.Classifier.NumFeatures() {
		return nil, fmt.Errorf("%w: preprocessor produced %d features, classifier expects %d",
			ErrShapeMismatch, len(x), p.Classifier.NumFeatures())
	}
	return x, nil
}

// PredictProba returns [P(class 0), P(class 1)] for a prepared record.
func (p *Pipeline) PredictProba(r features.Record) ([]float64, error) {
	x, err := p.Transform(r)
	if err != nil {
		return nil, err
	}
	pos, err := p.Classifier.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return []float64{1 - pos, pos}, nil
}

// FeatureNamesOut lists the technical names of the transformed features.
func (p *Pipeline) FeatureNamesOut() []string {
	return p.Prep.FeatureNamesOut()
}

// Explainable reports whether the classifier supports attribution.
func (p *Pipeline) Explainable() bool {
	_, ok := p.Classifier.(Attributor)
	return ok
}

// Attribute transforms a prepared record and attributes the classifier's
// output to each transformed feature. Linear models yield ErrNotAttributable.
func (p *Pipeline) Attribute(r features.Record) ([]float64, Attribution, error) {
	attributor, ok := p.Classifier.(Attributor)
	if !ok {
		return nil, Attribution{}, fmt.Errorf("%w: %s", ErrNotAttributable, p.Classifier.Kind())
	}
	x, err := p.Transform(r)
	if err != nil {
		return nil, Attribution{}, err
	}
	a, err := attributor.Attribute(x)
	if err != nil {
		return nil, Attribution{}, err
	}
	return x, a, nil
}
