// Package modelselection partitions a feature table and its labels into
// disjoint training and test sets.
package modelselection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

// Defaults used when no option overrides them.
const (
	DefaultTrainRatio        = 0.8
	DefaultSeed       uint64 = 42
)

// Option configures TrainTestSplit.
type Option func(*splitter)

type splitter struct {
	trainRatio float64
	seed       uint64
	shuffle    bool
}

// WithTrainRatio sets the fraction of rows assigned to training.
func WithTrainRatio(r float64) Option {
	return func(s *splitter) {
		s.trainRatio = r
	}
}

// WithSeed sets the seed of the shuffling permutation.
func WithSeed(seed uint64) Option {
	return func(s *splitter) {
		s.seed = seed
	}
}

// WithShuffle turns shuffling on or off. Without shuffling the first rows
// of the table form the training set.
func WithShuffle(shuffle bool) Option {
	return func(s *splitter) {
		s.shuffle = shuffle
	}
}

// Split is the result of TrainTestSplit. TrainIndex and TestIndex hold the
// source row of every partition row, in partition order.
type Split struct {
	TrainX     *dataset.FeatureTable
	TestX      *dataset.FeatureTable
	TrainY     *mat.VecDense
	TestY      *mat.VecDense
	TrainIndex []int
	TestIndex  []int
}

// Sizes returns the number of training and test rows.
func (s *Split) Sizes() (train, test int) {
	return len(s.TrainIndex), len(s.TestIndex)
}

// PartitionSizes returns the train/test row counts for n rows at the given
// ratio: the test set gets ceil(n*(1-ratio)) rows and training the rest.
func PartitionSizes(n int, trainRatio float64) (train, test int) {
	// 1e-9 absorbs float noise such as 10*(1-0.8) = 2.0000000000000004
	test = int(math.Ceil(float64(n)*(1-trainRatio) - 1e-9))
	if test < 0 {
		test = 0
	}
	if test > n {
		test = n
	}
	return n - test, test
}

// TrainTestSplit partitions X and y. Every row lands in exactly one
// partition; the same seed always yields the same partition.
func TrainTestSplit(X *dataset.FeatureTable, y *mat.VecDense, opts ...Option) (*Split, error) {
	s := &splitter{
		trainRatio: DefaultTrainRatio,
		seed:       DefaultSeed,
		shuffle:    true,
	}
	for _, opt := range opts {
		opt(s)
	}

	n := X.Rows()
	if y.Len() != n {
		return nil, errors.NewDimensionError("modelselection.TrainTestSplit", n, y.Len(), 0)
	}

	nTrain, nTest := PartitionSizes(n, s.trainRatio)
	if math.IsNaN(s.trainRatio) || s.trainRatio <= 0 || s.trainRatio >= 1 || nTrain == 0 || nTest == 0 {
		return nil, errors.NewSplitError(s.trainRatio, n, nTrain, nTest)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if s.shuffle {
		rng := rand.New(rand.NewPCG(s.seed, s.seed))
		rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	trainIdx := append([]int(nil), order[:nTrain]...)
	testIdx := append([]int(nil), order[nTrain:]...)

	return &Split{
		TrainX:     X.SelectRows(trainIdx),
		TestX:      X.SelectRows(testIdx),
		TrainY:     selectVec(y, trainIdx),
		TestY:      selectVec(y, testIdx),
		TrainIndex: trainIdx,
		TestIndex:  testIdx,
	}, nil
}

func selectVec(v *mat.VecDense, idx []int) *mat.VecDense {
	out := mat.NewVecDense(len(idx), nil)
	for i, r := range idx {
		out.SetVec(i, v.AtVec(r))
	}
	return out
}
