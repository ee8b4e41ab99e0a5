package regression

import "math"

// Report holds held-out metrics in price space plus the grid search result.
type Report struct {
	CVScore    float64 `json:"cv_r2"`
	BestParams Params  `json:"best_params"`
	TestR2     float64 `json:"test_r2"`
	TestMAE    float64 `json:"test_mae"`
	TestRMSE   float64 `json:"test_rmse"`
	TrainRows  int     `json:"train_rows"`
	TestRows   int     `json:"test_rows"`
}

// R2 is the coefficient of determination. A constant target scores 1 when
// predicted exactly and 0 otherwise.
func R2(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i, v := range actual {
		d := v - predicted[i]
		ssRes += d * d
		t := v - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i, v := range actual {
		sum += math.Abs(v - predicted[i])
	}
	return sum / float64(len(actual))
}

func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i, v := range actual {
		d := v - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}
