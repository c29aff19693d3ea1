package model

import (
	"fmt"

	"defasagem/internal/features"
)

// Output name prefixes, matching the transformer names of the training pipeline.
const (
	NumericPrefix     = "num__"
	CategoricalPrefix = "cat__"
)

// NumericColumn imputes and optionally standardises one numeric column.
type NumericColumn struct {
	Name   string  `json:"name"`
	Impute float64 `json:"impute"`
	Mean   float64 `json:"mean,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// CategoricalColumn imputes one categorical column and one-hot encodes it.
// Unknown categories encode as all zeros.
type CategoricalColumn struct {
	Name       string   `json:"name"`
	Impute     string   `json:"impute"`
	Categories []string `json:"categories"`
}

// Preprocessor turns a prepared record into the classifier's input vector:
// numeric columns first, then the one-hot blocks, in artifact order.
type Preprocessor struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
}

// NumFeatures returns the length of the transformed vector.
func (p *Preprocessor) NumFeatures() int {
	n := len(p.Numeric)
	for _, c := range p.Categorical {
		n += len(c.Categories)
	}
	return n
}

// FeatureNamesOut returns the technical name of each transformed feature.
func (p *Preprocessor) FeatureNamesOut() []string {
	names := make([]string, 0, p.NumFeatures())
	for _, c := range p.Numeric {
		names = append(names, NumericPrefix+c.Name)
	}
	for _, c := range p.Categorical {
		for _, cat := range c.Categories {
			names = append(names, CategoricalPrefix+c.Name+"_"+cat)
		}
	}
	return names
}

// Transform builds the feature vector for r. Every configured column must
// be present in r; numeric columns must hold numbers or be missing.
func (p *Preprocessor) Transform(r features.Record) ([]float64, error) {
	if missing := p.missingColumns(r); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumn, missing)
	}

	x := make([]float64, 0, p.NumFeatures())
	for _, c := range p.Numeric {
		v := r[c.Name]
		f, ok := v.Float()
		if !ok {
			if !v.IsMissing() {
				return nil, fmt.Errorf("column %q: cannot convert %q to float", c.Name, v.String())
			}
			f = c.Impute
		}
		if c.Scale != 0 {
			f = (f - c.Mean) / c.Scale
		}
		x = append(x, f)
	}

	for _, c := range p.Categorical {
		v := r[c.Name]
		value := c.Impute
		if !v.IsMissing() {
			value = v.String()
		}
		for _, cat := range c.Categories {
			if cat == value {
				x = append(x, 1)
			} else {
				x = append(x, 0)
			}
		}
	}
	return x, nil
}

func (p *Preprocessor) missingColumns(r features.Record) []string {
	var missing []string
	for _, c := range p.Numeric {
		if !r.Has(c.Name) {
			missing = append(missing, c.Name)
		}
	}
	for _, c := range p.Categorical {
		if !r.Has(c.Name) {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

func (p *Preprocessor) validate() error {
	seen := make(map[string]bool)
	for _, c := range p.Numeric {
		if c.Name == "" || seen[c.Name] {
			return fmt.Errorf("numeric column %q is empty or duplicated", c.Name)
		}
		seen[c.Name] = true
	}
	for _, c := range p.Categorical {
		if c.Name == "" || seen[c.Name] {
			return fmt.Errorf("categorical column %q is empty or duplicated", c.Name)
		}
		if len(c.Categories) == 0 {
			return fmt.Errorf("categorical column %q has no categories", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
