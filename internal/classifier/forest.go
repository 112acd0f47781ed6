package classifier

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"careerai/internal/domain"
)

const (
	numFeatures  = 4
	DefaultTrees = 100
)

// Options controls forest training.
type Options struct {
	Trees int
	// Seed fixes the random stream; zero seeds from the clock.
	Seed uint64
}

// Prediction is the forest's vote for one input.
type Prediction struct {
	Label string
	// Confidence is the share of trees that voted for Label.
	Confidence float64
	// Probabilities holds the vote share of every known label.
	Probabilities map[string]float64
}

// Model is a trained random forest. It is immutable and safe for concurrent use.
type Model struct {
	labels   []string
	trees    []*node
	examples []Example
}

type node struct {
	leaf      bool
	class     int
	feature   int
	threshold float64
	left      *node
	right     *node
}

type sample struct {
	x     [numFeatures]float64
	class int
}

// Train fits a random forest: every tree is grown to purity on a bootstrap
// sample, drawing a random subset of features at each split.
func Train(examples []Example, opts Options) (*Model, error) {
	if len(examples) == 0 {
		return nil, errors.New("classifier: no training examples")
	}
	if opts.Trees <= 0 {
		opts.Trees = DefaultTrees
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	index := map[string]int{}
	var labels []string
	for _, ex := range examples {
		if _, ok := index[ex.Role]; !ok {
			index[ex.Role] = len(labels)
			labels = append(labels, ex.Role)
		}
	}

	data := make([]sample, len(examples))
	for i, ex := range examples {
		v := ex.Scores.Vector()
		for f := range v {
			data[i].x[f] = float64(v[f])
		}
		data[i].class = index[ex.Role]
	}

	g := grower{
		rng:        rng,
		numClasses: len(labels),
		maxFeat:    max(1, int(math.Sqrt(numFeatures))),
	}
	trees := make([]*node, opts.Trees)
	for t := range trees {
		boot := make([]sample, len(data))
		for i := range boot {
			boot[i] = data[rng.IntN(len(data))]
		}
		trees[t] = g.grow(boot)
	}

	kept := make([]Example, len(examples))
	copy(kept, examples)
	return &Model{labels: labels, trees: trees, examples: kept}, nil
}

// Predict returns the majority label over all trees. Ties go to the label
// seen first in the training table.
func (m *Model) Predict(scores domain.Scores) Prediction {
	v := scores.Vector()
	var x [numFeatures]float64
	for f := range v {
		x[f] = float64(v[f])
	}

	votes := make([]int, len(m.labels))
	for _, t := range m.trees {
		votes[t.classify(x)]++
	}

	best := 0
	for c := range votes {
		if votes[c] > votes[best] {
			best = c
		}
	}

	total := float64(len(m.trees))
	probs := make(map[string]float64, len(m.labels))
	for c, label := range m.labels {
		probs[label] = float64(votes[c]) / total
	}

	return Prediction{
		Label:         m.labels[best],
		Confidence:    float64(votes[best]) / total,
		Probabilities: probs,
	}
}

// Labels returns the known career labels in training order.
func (m *Model) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Examples returns the rows the model was trained on.
func (m *Model) Examples() []Example {
	out := make([]Example, len(m.examples))
	copy(out, m.examples)
	return out
}

func (n *node) classify(x [numFeatures]float64) int {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.class
}

type grower struct {
	rng        *rand.Rand
	numClasses int
	maxFeat    int
}

func (g *grower) grow(data []sample) *node {
	counts := g.classCounts(data)
	majority, pure := 0, true
	for c, n := range counts {
		if n > counts[majority] {
			majority = c
		}
		if n > 0 && n < len(data) {
			pure = false
		}
	}
	if pure {
		return &node{leaf: true, class: majority}
	}

	feature, threshold, ok := g.bestSplit(data)
	if !ok {
		return &node{leaf: true, class: majority}
	}

	var left, right []sample
	for _, s := range data {
		if s.x[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      g.grow(left),
		right:     g.grow(right),
	}
}

// bestSplit searches a random feature subset first and only falls back to the
// rest when none of the drawn features can separate the node.
func (g *grower) bestSplit(data []sample) (int, float64, bool) {
	order := g.rng.Perm(numFeatures)
	if f, t, ok := g.searchFeatures(data, order[:g.maxFeat]); ok {
		return f, t, true
	}
	return g.searchFeatures(data, order[g.maxFeat:])
}

func (g *grower) searchFeatures(data []sample, features []int) (int, float64, bool) {
	var (
		bestFeature   int
		bestThreshold float64
		bestScore     = math.Inf(1)
		found         bool
	)
	for _, f := range features {
		sorted := make([]sample, len(data))
		copy(sorted, data)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].x[f] < sorted[j].x[f] })

		left := make([]int, g.numClasses)
		right := g.classCounts(sorted)
		for i := 0; i < len(sorted)-1; i++ {
			left[sorted[i].class]++
			right[sorted[i].class]--
			if sorted[i].x[f] == sorted[i+1].x[f] {
				continue
			}
			nl, nr := i+1, len(sorted)-i-1
			score := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(len(sorted))
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (sorted[i].x[f] + sorted[i+1].x[f]) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func (g *grower) classCounts(data []sample) []int {
	counts := make([]int, g.numClasses)
	for _, s := range data {
		counts[s.class]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}
