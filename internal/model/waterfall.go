package model

import (
	"fmt"
	"math"
	"sort"
)

// DefaultMaxDisplay is the number of bars shown in a waterfall, the
// aggregated remainder included.
const DefaultMaxDisplay = 10

// WaterfallStep is one bar of a waterfall chart. Start and End are the
// cumulative output before and after the contribution, measured from the
// base value upwards starting at the last step.
type WaterfallStep struct {
	Feature      string   `json:"feature,omitempty"`
	Label        string   `json:"label"`
	Value        *float64 `json:"value,omitempty"`
	Contribution float64  `json:"contribution"`
	Start        float64  `json:"start"`
	End          float64  `json:"end"`
	Aggregated   int      `json:"aggregated,omitempty"`
}

// Waterfall orders contributions by magnitude and truncates them to
// maxDisplay bars. When there are more features than bars, the last bar
// sums the remaining features as "<n> other features". names, labels and
// inputs are positional with a.Values; inputs may be nil.
func Waterfall(names, labels []string, inputs []float64, a Attribution, maxDisplay int) ([]WaterfallStep, error) {
	n := len(a.Values)
	if len(names) != n || len(labels) != n {
		return nil, fmt.Errorf("%w: %d names, %d labels for %d contributions", ErrShapeMismatch, len(names), len(labels), n)
	}
	if inputs != nil && len(inputs) != n {
		return nil, fmt.Errorf("%w: %d inputs for %d contributions", ErrShapeMismatch, len(inputs), n)
	}
	if maxDisplay <= 0 {
		maxDisplay = DefaultMaxDisplay
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return math.Abs(a.Values[order[i]]) > math.Abs(a.Values[order[j]])
	})

	shown := n
	if n > maxDisplay {
		shown = maxDisplay - 1
	}

	steps := make([]WaterfallStep, 0, maxDisplay)
	for _, idx := range order[:shown] {
		step := WaterfallStep{
			Feature:      names[idx],
			Label:        labels[idx],
			Contribution: a.Values[idx],
		}
		if inputs != nil {
			v := inputs[idx]
			step.Value = &v
		}
		steps = append(steps, step)
	}
	if rest := order[shown:]; len(rest) > 0 {
		sum := 0.0
		for _, idx := range rest {
			sum += a.Values[idx]
		}
		steps = append(steps, WaterfallStep{
			Label:        fmt.Sprintf("%d other features", len(rest)),
			Contribution: sum,
			Aggregated:   len(rest),
		})
	}

	running := a.BaseValue
	for i := len(steps) - 1; i >= 0; i-- {
		steps[i].Start = running
		running += steps[i].Contribution
		steps[i].End = running
	}
	return steps, nil
}
