package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// regressor is the minimal model surface the horizon predictor needs. Tests
// substitute stubs for it.
type regressor interface {
	predict(x []float64) float64
}

// modelParams mirror the hyperparameters the demand model was tuned with:
// many shallow-ish trees, a low learning rate, and aggressive row subsampling
// as regularization against tiny per-item training sets.
type modelParams struct {
	trees        int
	learningRate float64
	maxDepth     int
	subsample    float64
	minLeaf      int
	seed         int64
}

func defaultModelParams() modelParams {
	return modelParams{
		trees:        100,
		learningRate: 0.1,
		maxDepth:     6,
		subsample:    0.37,
		minLeaf:      2,
		seed:         42,
	}
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64 // leaf value when left == nil
}

func (n *treeNode) eval(x []float64) float64 {
	for n.left != nil {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// boostedTrees is a gradient-boosted ensemble of regression trees under
// squared loss: each tree is fit to the residuals of the ensemble so far.
// The model is an ephemeral per-request artifact, fit on one item's rows and
// discarded after producing its predictions.
type boostedTrees struct {
	base  float64
	rate  float64
	trees []*treeNode
}

func (m *boostedTrees) predict(x []float64) float64 {
	out := m.base
	for _, t := range m.trees {
		out += m.rate * t.eval(x)
	}
	return out
}

// fitModel trains the ensemble on all given rows. Subsampling uses a seeded
// source so identical inputs always fit the identical model. A degenerate
// target (all values equal) fits to a constant without error.
func fitModel(x [][]float64, y []float64, p modelParams) (*boostedTrees, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows", ErrModelFit, len(x))
	}

	m := &boostedTrees{base: stat.Mean(y, nil), rate: p.learningRate}
	rng := rand.New(rand.NewSource(p.seed))

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = m.base
	}

	resid := make([]float64, len(y))
	for t := 0; t < p.trees; t++ {
		floats.SubTo(resid, y, pred)
		if floats.Norm(resid, 1) == 0 {
			break // residuals exhausted, nothing left to learn
		}

		idx := sampleRows(rng, len(y), p.subsample)
		tree := growTree(x, resid, idx, 0, p)
		m.trees = append(m.trees, tree)

		for i := range pred {
			pred[i] += p.learningRate * tree.eval(x[i])
		}
	}
	return m, nil
}

// sampleRows draws a subsample of row indices without replacement. At least
// two rows always survive so a split remains possible.
func sampleRows(rng *rand.Rand, n int, frac float64) []int {
	k := int(math.Round(frac * float64(n)))
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}
	idx := rng.Perm(n)[:k]
	sort.Ints(idx)
	return idx
}

// growTree builds a regression tree on the residuals of the sampled rows,
// splitting greedily by squared-error reduction.
func growTree(x [][]float64, g []float64, idx []int, depth int, p modelParams) *treeNode {
	if depth >= p.maxDepth || len(idx) < 2*p.minLeaf {
		return &treeNode{value: meanAt(g, idx)}
	}

	feature, threshold, ok := bestSplit(x, g, idx, p.minLeaf)
	if !ok {
		return &treeNode{value: meanAt(g, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(x, g, left, depth+1, p),
		right:     growTree(x, g, right, depth+1, p),
	}
}

// bestSplit scans every feature and every midpoint between adjacent distinct
// values for the split minimizing total squared error, honoring minLeaf on
// both sides.
func bestSplit(x [][]float64, g []float64, idx []int, minLeaf int) (int, float64, bool) {
	bestErr := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	features := len(x[idx[0]])
	order := make([]int, len(idx))
	for f := 0; f < features; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		// Prefix sums over the sorted order let each candidate split be
		// scored in constant time.
		sum, sumSq := 0.0, 0.0
		total, totalSq := 0.0, 0.0
		for _, i := range order {
			total += g[i]
			totalSq += g[i] * g[i]
		}

		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			sum += g[i]
			sumSq += g[i] * g[i]

			if x[order[k+1]][f] == x[i][f] {
				continue // not a boundary between distinct values
			}
			nl, nr := k+1, len(order)-k-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}

			rs, rsq := total-sum, totalSq-sumSq
			err := (sumSq - sum*sum/float64(nl)) + (rsq - rs*rs/float64(nr))
			if err < bestErr {
				bestErr = err
				bestFeature = f
				bestThreshold = (x[i][f] + x[order[k+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func meanAt(g []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += g[i]
	}
	return sum / float64(len(idx))
}

// holdoutMAE estimates prediction error by fitting on everything but the
// last holdout rows and scoring against them, rounded to whole units. With
// too few rows for a meaningful holdout it reports zero.
func holdoutMAE(x [][]float64, y []float64, p modelParams, minTrainRows int) int {
	const holdout = 7
	if len(x) <= holdout+minTrainRows {
		return 0
	}

	cut := len(x) - holdout
	m, err := fitModel(x[:cut], y[:cut], p)
	if err != nil {
		return 0
	}

	diff := make([]float64, holdout)
	for i := 0; i < holdout; i++ {
		diff[i] = m.predict(x[cut+i]) - y[cut+i]
	}
	return int(math.Round(floats.Norm(diff, 1) / float64(holdout)))
}
