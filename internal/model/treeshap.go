package model

import "fmt"

// Exact path-dependent Tree SHAP (Lundberg et al., Algorithm 2). Each
// recursion level works on its own copy of the feature path.

type pathElement struct {
	feature  int
	zeroFrac float64
	oneFrac  float64
	weight   float64
}

func extendPath(path []pathElement, depth int, zeroFrac, oneFrac float64, feature int) {
	path[depth] = pathElement{feature: feature, zeroFrac: zeroFrac, oneFrac: oneFrac}
	if depth == 0 {
		path[depth].weight = 1
	}
	d := float64(depth)
	for i := depth - 1; i >= 0; i-- {
		fi := float64(i)
		path[i+1].weight += oneFrac * path[i].weight * (fi + 1) / (d + 1)
		path[i].weight = zeroFrac * path[i].weight * (d - fi) / (d + 1)
	}
}

func unwindPath(path []pathElement, depth, idx int) {
	oneFrac, zeroFrac := path[idx].oneFrac, path[idx].zeroFrac
	next := path[depth].weight
	d := float64(depth)
	for i := depth - 1; i >= 0; i-- {
		fi := float64(i)
		if oneFrac != 0 {
			tmp := path[i].weight
			path[i].weight = next * (d + 1) / ((fi + 1) * oneFrac)
			next = tmp - path[i].weight*zeroFrac*(d-fi)/(d+1)
		} else if zeroFrac != 0 {
			path[i].weight = path[i].weight * (d + 1) / (zeroFrac * (d - fi))
		}
	}
	for i := idx; i < depth; i++ {
		path[i].feature = path[i+1].feature
		path[i].zeroFrac = path[i+1].zeroFrac
		path[i].oneFrac = path[i+1].oneFrac
	}
}

func unwoundPathSum(path []pathElement, depth, idx int) float64 {
	oneFrac, zeroFrac := path[idx].oneFrac, path[idx].zeroFrac
	next := path[depth].weight
	d := float64(depth)
	total := 0.0
	for i := depth - 1; i >= 0; i-- {
		fi := float64(i)
		if oneFrac != 0 {
			tmp := next / ((fi + 1) * oneFrac)
			total += tmp
			next = path[i].weight - tmp*zeroFrac*(d-fi)
		} else if zeroFrac != 0 {
			total += path[i].weight / (zeroFrac * (d - fi))
		}
	}
	return total * (d + 1)
}

// shap adds the contributions of t for x into phi.
func (t *DecisionTree) shap(x, phi []float64) {
	t.recurse(x, phi, 0, nil, 0, 1, 1, -1)
}

func (t *DecisionTree) recurse(x, phi []float64, node int, parent []pathElement, depth int, zeroFrac, oneFrac float64, feature int) {
	path := make([]pathElement, depth+1)
	copy(path, parent[:depth])
	extendPath(path, depth, zeroFrac, oneFrac, feature)

	if t.isLeaf(node) {
		for i := 1; i <= depth; i++ {
			w := unwoundPathSum(path, depth, i)
			el := path[i]
			phi[el.feature] += w * (el.oneFrac - el.zeroFrac) * t.Value[node]
		}
		return
	}

	hot := t.next(node, x)
	cold := t.Right[node]
	if hot == cold {
		cold = t.Left[node]
	}
	hotZero := t.Cover[hot] / t.Cover[node]
	coldZero := t.Cover[cold] / t.Cover[node]

	inZero, inOne := 1.0, 1.0
	split := t.Feature[node]
	for k := 1; k <= depth; k++ {
		if path[k].feature == split {
			inZero, inOne = path[k].zeroFrac, path[k].oneFrac
			unwindPath(path, depth, k)
			depth--
			break
		}
	}

	t.recurse(x, phi, hot, path, depth+1, hotZero*inZero, inOne, split)
	t.recurse(x, phi, cold, path, depth+1, coldZero*inZero, 0, split)
}

// Attribute computes exact Shapley values of the ensemble output for x.
// Forests are attributed in probability space and boosted ensembles in
// log-odds space, where their trees are additive.
func (e *TreeEnsemble) Attribute(x []float64) (Attribution, error) {
	if len(x) != e.nFeatures {
		return Attribution{}, fmt.Errorf("%w: got %d features, model expects %d", ErrShapeMismatch, len(x), e.nFeatures)
	}

	phi := make([]float64, e.nFeatures)
	base := 0.0
	for _, t := range e.trees {
		t.shap(x, phi)
		base += t.ExpectedValue()
	}

	a := Attribution{Values: phi, Output: e.raw(x)}
	if e.boosted() {
		a.BaseValue = e.baseScore + base
		a.Space = SpaceLogOdds
		return a, nil
	}

	n := float64(len(e.trees))
	for i := range phi {
		phi[i] /= n
	}
	a.BaseValue = base / n
	a.Space = SpaceProbability
	return a, nil
}
