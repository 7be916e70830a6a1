// Package baseline runs the physics-baseline evaluation: load the
// surveillance dataset, predict shifts with the E900-15 correlation, and
// score the prediction against the measured shifts.
package baseline

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rpv-lab/embrittlement/internal/config"
	"github.com/rpv-lab/embrittlement/internal/dataset"
	"github.com/rpv-lab/embrittlement/internal/e900"
	"github.com/rpv-lab/embrittlement/internal/eval"
)

// Report is the outcome of one baseline evaluation run.
type Report struct {
	RunID       string  `json:"run_id"`
	DatasetPath string  `json:"dataset_path"`
	Samples     int     `json:"samples"`
	Dropped     int     `json:"dropped"`
	MnDefaulted bool    `json:"mn_defaulted"`
	RMSE        float64 `json:"rmse_celsius"`
	MAE         float64 `json:"mae_celsius"`
	Bias        float64 `json:"bias_celsius"`
	Threshold   float64 `json:"threshold_celsius"`
	Validated   bool    `json:"validated"`
	CreatedAt   string  `json:"created_at"`
}

// Run executes the full load -> predict -> score sequence and returns the
// resulting report. Errors keep their cause: a missing dataset file
// surfaces as an fs.ErrNotExist wrap, an invalid numeric input as an
// *e900.DomainError.
func Run(cfg config.Config) (*Report, error) {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = config.DefaultThreshold
	}

	log.Printf("Loading surveillance data from %s", cfg.DataPath)
	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d samples (%d dropped)", ds.Len(), ds.Dropped)

	log.Printf("Computing ASTM E900-15 predictions...")
	predicted, err := e900.PredictTTS(ds.Inputs)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	rmse, err := eval.RMSE(predicted, ds.Measured)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	mae, err := eval.MAE(predicted, ds.Measured)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	bias, err := eval.Bias(predicted, ds.Measured)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	return &Report{
		RunID:       uuid.New().String(),
		DatasetPath: ds.Path,
		Samples:     ds.Len(),
		Dropped:     ds.Dropped,
		MnDefaulted: ds.MnDefaulted,
		RMSE:        rmse,
		MAE:         mae,
		Bias:        bias,
		Threshold:   threshold,
		Validated:   rmse < threshold,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// WriteText writes the human-readable verdict to w.
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintln(w, "------------------------------")
	fmt.Fprintf(w, "PHYSICS BASELINE (ASTM E900-15)\n")
	fmt.Fprintf(w, "Dataset: %s (%d samples, %d dropped)\n", r.DatasetPath, r.Samples, r.Dropped)
	if r.MnDefaulted {
		fmt.Fprintf(w, "Note: Mn column absent, %.2f substituted\n", dataset.MnFallback)
	}
	fmt.Fprintf(w, "RMSE: %.4f C   MAE: %.4f C   Bias: %+.4f C\n", r.RMSE, r.MAE, r.Bias)
	fmt.Fprintln(w, "------------------------------")
	if r.Validated {
		fmt.Fprintf(w, ">> Baseline validated: RMSE below %.1f C.\n", r.Threshold)
		fmt.Fprintf(w, ">> A learned model now has a number to beat.\n")
	} else {
		fmt.Fprintf(w, ">> RMSE above %.1f C: check units (Fahrenheit vs Celsius?) and input data.\n", r.Threshold)
	}
}
