package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stump() *DecisionTree {
	return &DecisionTree{
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Feature:   []int{0, -2, -2},
		Threshold: []float64{0.5, 0, 0},
		Value:     []float64{0, 0, 0.6},
		Cover:     []float64{100, 50, 50},
	}
}

// twoFeatureTree is f0 at the root, then f1 on the right branch.
func twoFeatureTree() *DecisionTree {
	return &DecisionTree{
		Left:      []int{1, -1, 3, -1, -1},
		Right:     []int{2, -1, 4, -1, -1},
		Feature:   []int{0, -2, 1, -2, -2},
		Threshold: []float64{0.5, 0, 0.5, 0, 0},
		Value:     []float64{0, 0, 0, 0, 1},
		Cover:     []float64{100, 50, 50, 25, 25},
	}
}

// repeatedSplitTree splits on f0 twice along one path.
func repeatedSplitTree() *DecisionTree {
	return &DecisionTree{
		Left:      []int{1, -1, 3, -1, -1},
		Right:     []int{2, -1, 4, -1, -1},
		Feature:   []int{0, -2, 0, -2, -2},
		Threshold: []float64{0.5, 0, 1.5, 0, 0},
		Value:     []float64{0, 0.1, 0, 0.5, 0.9},
		Cover:     []float64{100, 40, 60, 30, 30},
	}
}

// deepTree uses three features with f0 repeated at different depths.
func deepTree() *DecisionTree {
	return &DecisionTree{
		Left:      []int{1, 3, 5, -1, -1, 7, -1, 9, -1, -1, -1},
		Right:     []int{2, 4, 6, -1, -1, 8, -1, 10, -1, -1, -1},
		Feature:   []int{0, 1, 2, -2, -2, 0, -2, 1, -2, -2, -2},
		Threshold: []float64{3, 1, 5, 0, 0, 7, 0, 2, 0, 0, 0},
		Value:     []float64{0, 0, 0, 0.05, 0.4, 0, 0.7, 0, 0.95, 0.2, 0.6},
		Cover:     []float64{200, 80, 120, 50, 30, 90, 30, 60, 30, 20, 40},
	}
}

func mustEnsemble(t *testing.T, kind string, base float64, n int, trees ...*DecisionTree) *TreeEnsemble {
	t.Helper()
	e, err := NewTreeEnsemble(kind, trees, base, n)
	require.NoError(t, err)
	return e
}

func TestDecisionTreePredict(t *testing.T) {
	tree := twoFeatureTree()
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"left leaf", []float64{0, 1}, 0},
		{"right-left leaf", []float64{1, 0}, 0},
		{"right-right leaf", []float64{1, 1}, 1},
		{"threshold goes left", []float64{0.5, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.Predict(tt.x))
		})
	}
}

func TestDecisionTreeMissingFollowsLargerCover(t *testing.T) {
	tree := &DecisionTree{
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Feature:   []int{0, -2, -2},
		Threshold: []float64{0.5, 0, 0},
		Value:     []float64{0, 0.2, 0.8},
		Cover:     []float64{100, 30, 70},
	}
	assert.Equal(t, 0.8, tree.Predict([]float64{math.NaN()}))

	tree.Cover = []float64{100, 50, 50}
	assert.Equal(t, 0.2, tree.Predict([]float64{math.NaN()}), "ties go left")
}

func TestExpectedValue(t *testing.T) {
	assert.InDelta(t, 0.3, stump().ExpectedValue(), 1e-12)
	assert.InDelta(t, 0.25, twoFeatureTree().ExpectedValue(), 1e-12)
	assert.InDelta(t, 0.46, repeatedSplitTree().ExpectedValue(), 1e-12)
}

func TestAttributeKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		tree     *DecisionTree
		x        []float64
		wantBase float64
		wantPhi  []float64
	}{
		{"stump", stump(), []float64{1}, 0.3, []float64{0.3}},
		{"stump other side", stump(), []float64{0}, 0.3, []float64{-0.3}},
		{"two features", twoFeatureTree(), []float64{1, 1}, 0.25, []float64{0.375, 0.375}},
		{"repeated split", repeatedSplitTree(), []float64{2}, 0.46, []float64{0.44}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEnsemble(t, KindDecisionTree, 0, len(tt.x), tt.tree)
			a, err := e.Attribute(tt.x)
			require.NoError(t, err)
			assert.Equal(t, SpaceProbability, a.Space)
			assert.InDelta(t, tt.wantBase, a.BaseValue, 1e-12)
			require.Len(t, a.Values, len(tt.wantPhi))
			for i, want := range tt.wantPhi {
				assert.InDelta(t, want, a.Values[i], 1e-12, "feature %d", i)
			}
		})
	}
}

// conditionalExpectation is the path-dependent value of a coalition:
// features in s follow x, the others are averaged by cover.
func conditionalExpectation(t *DecisionTree, node int, x []float64, s map[int]bool) float64 {
	if t.isLeaf(node) {
		return t.Value[node]
	}
	if s[t.Feature[node]] {
		return conditionalExpectation(t, t.next(node, x), x, s)
	}
	l, r := t.Left[node], t.Right[node]
	return (t.Cover[l]*conditionalExpectation(t, l, x, s) + t.Cover[r]*conditionalExpectation(t, r, x, s)) / t.Cover[node]
}

func bruteForceShapley(tree *DecisionTree, x []float64) []float64 {
	n := len(x)
	fact := func(k int) float64 {
		f := 1.0
		for i := 2; i <= k; i++ {
			f *= float64(i)
		}
		return f
	}
	phi := make([]float64, n)
	for mask := 0; mask < 1<<n; mask++ {
		s := map[int]bool{}
		for j := 0; j < n; j++ {
			if mask&(1<<j) != 0 {
				s[j] = true
			}
		}
		without := conditionalExpectation(tree, 0, x, s)
		for i := 0; i < n; i++ {
			if s[i] {
				continue
			}
			with := map[int]bool{i: true}
			for k := range s {
				with[k] = true
			}
			w := fact(len(s)) * fact(n-len(s)-1) / fact(n)
			phi[i] += w * (conditionalExpectation(tree, 0, x, with) - without)
		}
	}
	return phi
}

func TestAttributeMatchesBruteForce(t *testing.T) {
	inputs := [][]float64{
		{1, 0, 4},
		{1, 3, 9},
		{5, 0, 6},
		{8, 1, 6},
		{8, 3, 6},
		{math.NaN(), 1, 6},
	}
	tree := deepTree()
	e := mustEnsemble(t, KindDecisionTree, 0, 3, tree)
	for _, x := range inputs {
		a, err := e.Attribute(x)
		require.NoError(t, err)
		want := bruteForceShapley(tree, x)
		for i := range want {
			assert.InDelta(t, want[i], a.Values[i], 1e-9, "x=%v feature %d", x, i)
		}
	}
}

func TestAttributeAdditivity(t *testing.T) {
	x := []float64{8, 3, 6}

	t.Run("forest", func(t *testing.T) {
		e := mustEnsemble(t, KindRandomForest, 0, 3, deepTree(), twoFeatureTree(), repeatedSplitTree())
		a, err := e.Attribute(x)
		require.NoError(t, err)
		p, err := e.PredictProba(x)
		require.NoError(t, err)

		assert.Equal(t, SpaceProbability, a.Space)
		assert.InDelta(t, p, a.Output, 1e-12)
		assert.InDelta(t, a.Output, a.BaseValue+sum(a.Values), 1e-9)
	})

	t.Run("boosting", func(t *testing.T) {
		e := mustEnsemble(t, KindGradientBoosting, -0.4, 3, deepTree(), twoFeatureTree())
		a, err := e.Attribute(x)
		require.NoError(t, err)
		p, err := e.PredictProba(x)
		require.NoError(t, err)

		assert.Equal(t, SpaceLogOdds, a.Space)
		assert.InDelta(t, p, sigmoid(a.Output), 1e-12)
		assert.InDelta(t, a.Output, a.BaseValue+sum(a.Values), 1e-9)
	})
}

// A leaf no training row reached has zero cover; paths through it carry
// no weight instead of dividing by zero.
func TestAttributeZeroCoverLeaf(t *testing.T) {
	tree := &DecisionTree{
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Feature:   []int{0, -2, -2},
		Threshold: []float64{0.5, 0, 0},
		Value:     []float64{0, 0.2, 0.9},
		Cover:     []float64{10, 10, 0},
	}
	e := mustEnsemble(t, KindRandomForest, 0, 1, tree)

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"covered branch", 0, 0},
		{"empty branch", 1, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := e.Attribute([]float64{tt.x})
			require.NoError(t, err)
			require.False(t, math.IsNaN(a.Values[0]))
			assert.InDelta(t, tt.want, a.Values[0], 1e-12)
			assert.InDelta(t, 0.2, a.BaseValue, 1e-12)
			assert.InDelta(t, a.Output, a.BaseValue+sum(a.Values), 1e-12)
		})
	}
}

func TestAttributeShapeMismatch(t *testing.T) {
	e := mustEnsemble(t, KindDecisionTree, 0, 2, twoFeatureTree())
	_, err := e.Attribute([]float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = e.PredictProba([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewTreeEnsembleValidation(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		mutate func(*DecisionTree)
		trees  int
	}{
		{"unknown kind", "xgboost", nil, 1},
		{"no trees", KindRandomForest, nil, 0},
		{"decision tree with two trees", KindDecisionTree, nil, 2},
		{"child out of range", KindRandomForest, func(d *DecisionTree) { d.Right[0] = 9 }, 1},
		{"child before parent", KindRandomForest, func(d *DecisionTree) { d.Left[2] = 1 }, 1},
		{"feature out of range", KindRandomForest, func(d *DecisionTree) { d.Feature[0] = 7 }, 1},
		{"cover mismatch", KindRandomForest, func(d *DecisionTree) { d.Cover[0] = 120 }, 1},
		{"ragged arrays", KindRandomForest, func(d *DecisionTree) { d.Value = d.Value[:2] }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trees := make([]*DecisionTree, tt.trees)
			for i := range trees {
				trees[i] = twoFeatureTree()
				if tt.mutate != nil {
					tt.mutate(trees[i])
				}
			}
			_, err := NewTreeEnsemble(tt.kind, trees, 0, 2)
			assert.ErrorIs(t, err, ErrInvalidArtifact)
		})
	}
}

func TestNewTreeEnsembleRejectsNullTree(t *testing.T) {
	_, err := NewTreeEnsemble(KindRandomForest, []*DecisionTree{twoFeatureTree(), nil}, 0, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArtifact)
	assert.Contains(t, err.Error(), "tree 1 is null")
}

func sum(v []float64) float64 {
	s := 0.0
	for _, f := range v {
		s += f
	}
	return s
}
