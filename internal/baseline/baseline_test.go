package baseline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rpv-lab/embrittlement/internal/config"
	"github.com/rpv-lab/embrittlement/internal/e900"
)

const header = "DT41J_Celsius,Fluence_n_cm2,Cu,Ni,P,Temperature_Celsius,Product_Form,Mn\n"

// writeDataset writes a CSV whose measured shifts exactly equal the
// correlation output, so the resulting RMSE is zero.
func writeExactDataset(t *testing.T, n int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(header)
	for i := 0; i < n; i++ {
		s := e900.Sample{
			Cu:          0.08 + 0.02*float64(i),
			Ni:          0.5,
			P:           0.01,
			Mn:          1.40,
			TempC:       285 + float64(i),
			Fluence:     2e19 * float64(i+1),
			ProductForm: e900.Plate,
		}
		tts, err := e900.Predict(s)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		sb.WriteString(fmt.Sprintf("%s,%g,%g,%g,%g,%g,P,%g\n",
			strconv.FormatFloat(tts, 'g', -1, 64),
			s.Fluence, s.Cu, s.Ni, s.P, s.TempC, s.Mn))
	}

	path := filepath.Join(t.TempDir(), "exact.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	return path
}

func TestRunValidatedBaseline(t *testing.T) {
	cfg := config.Config{
		DataPath:  writeExactDataset(t, 5),
		Threshold: 15.0,
	}

	report, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Samples != 5 {
		t.Errorf("Expected 5 samples, got %d", report.Samples)
	}
	if report.RMSE != 0 {
		t.Errorf("Expected RMSE 0 for exact dataset, got %v", report.RMSE)
	}
	if !report.Validated {
		t.Error("Expected validated baseline")
	}
	if report.RunID == "" {
		t.Error("Expected a run ID")
	}
	if report.CreatedAt == "" {
		t.Error("Expected a creation timestamp")
	}
}

func TestRunOffsetRMSE(t *testing.T) {
	// Shift every measured value by a constant; RMSE must equal the offset.
	path := writeExactDataset(t, 4)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read dataset: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var sb strings.Builder
	sb.WriteString(lines[0] + "\n")
	for _, line := range lines[1:] {
		fields := strings.SplitN(line, ",", 2)
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			t.Fatalf("Failed to parse shift: %v", err)
		}
		sb.WriteString(strconv.FormatFloat(v+10, 'g', -1, 64) + "," + fields[1] + "\n")
	}

	shifted := filepath.Join(t.TempDir(), "shifted.csv")
	if err := os.WriteFile(shifted, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}

	report, err := Run(config.Config{DataPath: shifted})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if diff := report.RMSE - 10; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected RMSE 10, got %v", report.RMSE)
	}
	if !report.Validated {
		t.Error("RMSE 10 is below the default threshold, expected validated baseline")
	}
}

func TestRunDefaultThreshold(t *testing.T) {
	report, err := Run(config.Config{DataPath: writeExactDataset(t, 3)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Threshold != config.DefaultThreshold {
		t.Errorf("Expected default threshold %v, got %v", config.DefaultThreshold, report.Threshold)
	}
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(config.Config{DataPath: filepath.Join(t.TempDir(), "absent.csv")})
	if err == nil {
		t.Fatal("Expected error for missing dataset")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist wrap, got %v", err)
	}
}

func TestRunDomainError(t *testing.T) {
	content := header + "55.2,0,0.10,0.5,0.01,290,P,1.40\n"
	path := filepath.Join(t.TempDir(), "zerofluence.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}

	_, err := Run(config.Config{DataPath: path})
	if err == nil {
		t.Fatal("Expected domain error for zero fluence")
	}

	var derr *e900.DomainError
	if !errors.As(err, &derr) {
		t.Errorf("Expected *e900.DomainError, got %v", err)
	}
}

func TestWriteText(t *testing.T) {
	report := &Report{
		RunID:       "test",
		DatasetPath: "data/test.csv",
		Samples:     10,
		RMSE:        8.5,
		Threshold:   15.0,
		Validated:   true,
	}

	var sb strings.Builder
	report.WriteText(&sb)
	out := sb.String()

	if !strings.Contains(out, "RMSE: 8.5000") {
		t.Errorf("Expected RMSE line, got:\n%s", out)
	}
	if !strings.Contains(out, "Baseline validated") {
		t.Errorf("Expected validation verdict, got:\n%s", out)
	}

	report.Validated = false
	sb.Reset()
	report.WriteText(&sb)
	if !strings.Contains(sb.String(), "check units") {
		t.Errorf("Expected unit-check warning, got:\n%s", sb.String())
	}
}
