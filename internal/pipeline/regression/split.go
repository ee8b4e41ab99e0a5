package regression

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit shuffles row indices with the given seed and holds out
// ceil(testFraction*n) of them.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, fmt.Errorf("%d rows cannot be split with test fraction %v", n, testFraction)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Fold is one cross-validation split.
type Fold struct {
	Train []int
	Test  []int
}

// KFold partitions 0..n-1 into k contiguous test folds without shuffling.
// The first n%k folds hold one extra row.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, k)
	}
	folds := make([]Fold, 0, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		end := start + size
		train := make([]int, 0, n-size)
		test := make([]int, 0, size)
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}
		folds = append(folds, Fold{Train: train, Test: test})
		start = end
	}
	return folds, nil
}
