// Package eval provides the small set of regression metrics used to score
// a physics baseline against measured data.
package eval

import (
	"fmt"
	"math"
)

// RMSE returns the root-mean-square error between predicted and observed
// values. The sequences must be aligned and non-empty.
func RMSE(predicted, observed []float64) (float64, error) {
	if err := checkAligned(predicted, observed); err != nil {
		return 0, err
	}

	var sum float64
	for i := range predicted {
		d := predicted[i] - observed[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted))), nil
}

// MAE returns the mean absolute error between predicted and observed values.
func MAE(predicted, observed []float64) (float64, error) {
	if err := checkAligned(predicted, observed); err != nil {
		return 0, err
	}

	var sum float64
	for i := range predicted {
		sum += math.Abs(predicted[i] - observed[i])
	}
	return sum / float64(len(predicted)), nil
}

// Bias returns the mean signed error (predicted minus observed). A positive
// bias means the prediction runs hot.
func Bias(predicted, observed []float64) (float64, error) {
	if err := checkAligned(predicted, observed); err != nil {
		return 0, err
	}

	var sum float64
	for i := range predicted {
		sum += predicted[i] - observed[i]
	}
	return sum / float64(len(predicted)), nil
}

func checkAligned(predicted, observed []float64) error {
	if len(predicted) != len(observed) {
		return fmt.Errorf("length mismatch: %d predicted vs %d observed", len(predicted), len(observed))
	}
	if len(predicted) == 0 {
		return fmt.Errorf("no samples to score")
	}
	return nil
}
