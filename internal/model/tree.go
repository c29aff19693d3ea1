package model

import (
	"fmt"
	"math"
)

const leafChild = -1

// DecisionTree is a binary tree stored as parallel arrays indexed by node
// id. A node is a leaf when its Left child is -1. Cover holds the training
// weight that reached each node.
type DecisionTree struct {
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Value     []float64 `json:"value"`
	Cover     []float64 `json:"cover"`
}

func (t *DecisionTree) isLeaf(node int) bool { return t.Left[node] == leafChild }

// next returns the child x follows from an internal node. Missing values
// go to the child that saw more training weight.
func (t *DecisionTree) next(node int, x []float64) int {
	v := x[t.Feature[node]]
	if math.IsNaN(v) {
		if t.Cover[t.Right[node]] > t.Cover[t.Left[node]] {
			return t.Right[node]
		}
		return t.Left[node]
	}
	if v <= t.Threshold[node] {
		return t.Left[node]
	}
	return t.Right[node]
}

// Predict returns the leaf value reached by x.
func (t *DecisionTree) Predict(x []float64) float64 {
	node := 0
	for !t.isLeaf(node) {
		node = t.next(node, x)
	}
	return t.Value[node]
}

// ExpectedValue is the cover-weighted mean of the leaf values.
func (t *DecisionTree) ExpectedValue() float64 {
	return t.expected(0)
}

func (t *DecisionTree) expected(node int) float64 {
	if t.isLeaf(node) {
		return t.Value[node]
	}
	l, r := t.Left[node], t.Right[node]
	return (t.Cover[l]*t.expected(l) + t.Cover[r]*t.expected(r)) / t.Cover[node]
}

func (t *DecisionTree) validate(nFeatures int) error {
	n := len(t.Left)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for name, l := range map[string]int{
		"right": len(t.Right), "feature": len(t.Feature), "threshold": len(t.Threshold),
		"value": len(t.Value), "cover": len(t.Cover),
	} {
		if l != n {
			return fmt.Errorf("%s has %d entries, left has %d", name, l, n)
		}
	}
	for i := 0; i < n; i++ {
		if t.Left[i] == leafChild {
			if t.Right[i] != leafChild {
				return fmt.Errorf("node %d: left is a leaf marker but right is %d", i, t.Right[i])
			}
			continue
		}
		l, r := t.Left[i], t.Right[i]
		// Children must come after their parent, which also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d: children %d/%d out of range", i, l, r)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d: feature %d out of range [0,%d)", i, t.Feature[i], nFeatures)
		}
		if t.Cover[i] <= 0 {
			return fmt.Errorf("node %d: cover must be positive", i)
		}
		if sum := t.Cover[l] + t.Cover[r]; math.Abs(sum-t.Cover[i]) > 1e-6*t.Cover[i] {
			return fmt.Errorf("node %d: cover %g does not match children sum %g", i, t.Cover[i], sum)
		}
	}
	return nil
}

// TreeEnsemble covers single decision trees, random forests and gradient
// boosted trees. Forest leaves hold positive-class probabilities and are
// averaged; boosted leaves hold margins that are summed onto BaseScore and
// passed through the logistic link.
type TreeEnsemble struct {
	kind      string
	trees     []*DecisionTree
	baseScore float64
	nFeatures int
}

// NewTreeEnsemble validates trees and returns the ensemble.
func NewTreeEnsemble(kind string, trees []*DecisionTree, baseScore float64, nFeatures int) (*TreeEnsemble, error) {
	switch kind {
	case KindDecisionTree, KindRandomForest, KindGradientBoosting:
	default:
		return nil, fmt.Errorf("%w: unsupported tree model kind %q", ErrInvalidArtifact, kind)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: %s has no trees", ErrInvalidArtifact, kind)
	}
	if kind == KindDecisionTree && len(trees) != 1 {
		return nil, fmt.Errorf("%w: decision_tree must have exactly one tree, got %d", ErrInvalidArtifact, len(trees))
	}
	for i, t := range trees {
		if t == nil {
			return nil, fmt.Errorf("%w: tree %d is null", ErrInvalidArtifact, i)
		}
		if err := t.validate(nFeatures); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
		}
	}
	return &TreeEnsemble{kind: kind, trees: trees, baseScore: baseScore, nFeatures: nFeatures}, nil
}

func (e *TreeEnsemble) Kind() string { return e.kind }

func (e *TreeEnsemble) NumFeatures() int { return e.nFeatures }

// NumTrees returns the ensemble size.
func (e *TreeEnsemble) NumTrees() int { return len(e.trees) }

func (e *TreeEnsemble) boosted() bool { return e.kind == KindGradientBoosting }

// raw returns the ensemble output before the link function.
func (e *TreeEnsemble) raw(x []float64) float64 {
	sum := 0.0
	for _, t := range e.trees {
		sum += t.Predict(x)
	}
	if e.boosted() {
		return e.baseScore + sum
	}
	return sum / float64(len(e.trees))
}

func (e *TreeEnsemble) PredictProba(x []float64) (float64, error) {
	if len(x) != e.nFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrShapeMismatch, len(x), e.nFeatures)
	}
	out := e.raw(x)
	if e.boosted() {
		return sigmoid(out), nil
	}
	return out, nil
}
