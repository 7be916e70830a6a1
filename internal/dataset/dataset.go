// Package dataset loads tabular surveillance data for baseline evaluation.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rpv-lab/embrittlement/internal/e900"
)

// MnFallback is the manganese content substituted when the dataset has no
// Mn column, a typical value for vessel steels.
const MnFallback = 1.40

// Required column names in the surveillance CSV.
const (
	ColShift       = "DT41J_Celsius"
	ColFluence     = "Fluence_n_cm2"
	ColCu          = "Cu"
	ColNi          = "Ni"
	ColP           = "P"
	ColTemp        = "Temperature_Celsius"
	ColProductForm = "Product_Form"
	ColMn          = "Mn" // optional
)

var requiredColumns = []string{
	ColShift, ColFluence, ColCu, ColNi, ColP, ColTemp, ColProductForm,
}

// Dataset holds the loaded surveillance data: measured shifts aligned with
// the evaluator inputs, plus load accounting.
type Dataset struct {
	Path        string
	Measured    []float64
	Inputs      *e900.Batch
	Dropped     int
	MnDefaulted bool
}

// Len returns the number of usable samples.
func (d *Dataset) Len() int {
	return len(d.Measured)
}

// Load reads a surveillance CSV from path. Rows missing any required field
// are dropped and counted; a missing Mn column is substituted with
// MnFallback for every sample.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset %s is missing required column %q", path, name)
		}
	}

	mnIdx, hasMn := cols[ColMn]
	if !hasMn {
		log.Printf("Warning: column %q not found in %s, using %.2f for all samples", ColMn, path, MnFallback)
	}

	ds := &Dataset{
		Path:        path,
		Inputs:      &e900.Batch{},
		MnDefaulted: !hasMn,
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse dataset row: %w", err)
		}

		shift, ok1 := parseField(record, cols[ColShift])
		fluence, ok2 := parseField(record, cols[ColFluence])
		cu, ok3 := parseField(record, cols[ColCu])
		ni, ok4 := parseField(record, cols[ColNi])
		p, ok5 := parseField(record, cols[ColP])
		temp, ok6 := parseField(record, cols[ColTemp])
		form := strings.TrimSpace(record[cols[ColProductForm]])

		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) || form == "" {
			ds.Dropped++
			continue
		}

		mn := MnFallback
		if hasMn {
			if v, ok := parseField(record, mnIdx); ok {
				mn = v
			}
		}

		ds.Measured = append(ds.Measured, shift)
		ds.Inputs.Cu = append(ds.Inputs.Cu, cu)
		ds.Inputs.Ni = append(ds.Inputs.Ni, ni)
		ds.Inputs.P = append(ds.Inputs.P, p)
		ds.Inputs.Mn = append(ds.Inputs.Mn, mn)
		ds.Inputs.TempC = append(ds.Inputs.TempC, temp)
		ds.Inputs.Fluence = append(ds.Inputs.Fluence, fluence)
		ds.Inputs.ProductForm = append(ds.Inputs.ProductForm, e900.ProductForm(form))
	}

	if ds.Dropped > 0 {
		log.Printf("Dropped %d rows with missing required fields from %s", ds.Dropped, path)
	}

	return ds, nil
}

// parseField extracts a float field from a record, reporting whether the
// value was present and numeric.
func parseField(record []string, idx int) (float64, bool) {
	if idx >= len(record) {
		return 0, false
	}
	s := strings.TrimSpace(record[idx])
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
