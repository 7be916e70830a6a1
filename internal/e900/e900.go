package e900

import (
	"fmt"
	"math"
)

// ASTM E900-15 correlation constants.
const (
	// Coefficient A (matrix damage) by product form
	AWeld    = 0.919
	AForging = 1.011
	APlate   = 1.080

	// Coefficient B (copper precipitation) by product form
	BWeld    = 0.968
	BForging = 0.738
	BPlate   = 0.819

	// Effective copper saturates at 0.28 and only contributes above 0.053
	CuMax    = 0.28
	CuOffset = 0.053

	// Fahrenheit-degree to Celsius-degree interval conversion
	degFToC = 5.0 / 9.0

	// Fluence arrives in n/cm2 and is scaled before evaluation
	fluenceScale = 1e4
)

// ProductForm is the manufacturing category of a vessel steel component.
type ProductForm string

const (
	Weld    ProductForm = "W"
	Plate   ProductForm = "P"
	Forging ProductForm = "F"
)

// ParseProductForm maps a dataset label to a ProductForm. Unlike the
// evaluator itself, it rejects labels outside the recognized set.
func ParseProductForm(label string) (ProductForm, error) {
	switch label {
	case "W", "weld", "Weld":
		return Weld, nil
	case "P", "plate", "Plate":
		return Plate, nil
	case "F", "forging", "Forging":
		return Forging, nil
	}
	return "", fmt.Errorf("unrecognized product form %q", label)
}

// CoefficientsFor returns the A and B chemistry coefficients for a product
// form. Any label outside {W, F} gets the plate values; this lenient
// fallback matches the published correlation tables, where plate is the
// default class.
func CoefficientsFor(form ProductForm) (a, b float64) {
	switch form {
	case Weld:
		return AWeld, BWeld
	case Forging:
		return AForging, BForging
	default:
		return APlate, BPlate
	}
}

// DomainError reports an input outside the mathematical domain of the
// correlation, identifying the offending sample.
type DomainError struct {
	Index int
	Field string
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("sample %d: %s=%g outside correlation domain", e.Index, e.Field, e.Value)
}

// Sample holds the composition and exposure of a single specimen.
// Composition values are weight fractions as recorded in surveillance
// datasets; fluence is cumulative neutron exposure in n/cm2.
type Sample struct {
	Cu          float64     `json:"cu"`
	Ni          float64     `json:"ni"`
	P           float64     `json:"p"`
	Mn          float64     `json:"mn"`
	TempC       float64     `json:"temperature_c"`
	Fluence     float64     `json:"fluence"`
	ProductForm ProductForm `json:"product_form"`
}

// Batch holds aligned per-specimen input sequences for vectorized
// evaluation. All slices must have equal length.
type Batch struct {
	Cu          []float64
	Ni          []float64
	P           []float64
	Mn          []float64
	TempC       []float64
	Fluence     []float64
	ProductForm []ProductForm
}

// Len returns the number of samples in the batch.
func (b *Batch) Len() int {
	return len(b.Cu)
}

// Validate checks that all input sequences are aligned.
func (b *Batch) Validate() error {
	n := len(b.Cu)
	for name, l := range map[string]int{
		"ni":           len(b.Ni),
		"p":            len(b.P),
		"mn":           len(b.Mn),
		"temperature":  len(b.TempC),
		"fluence":      len(b.Fluence),
		"product_form": len(b.ProductForm),
	} {
		if l != n {
			return fmt.Errorf("misaligned inputs: cu has %d samples, %s has %d", n, name, l)
		}
	}
	return nil
}

// At returns the i-th sample of the batch.
func (b *Batch) At(i int) Sample {
	return Sample{
		Cu:          b.Cu[i],
		Ni:          b.Ni[i],
		P:           b.P[i],
		Mn:          b.Mn[i],
		TempC:       b.TempC[i],
		Fluence:     b.Fluence[i],
		ProductForm: b.ProductForm[i],
	}
}

// PredictTTS evaluates the E900-15 transition temperature shift correlation
// for every sample in the batch. The result is the predicted shift in
// Celsius, one entry per input sample; an empty batch yields an empty
// result. A non-positive fluence makes the log term undefined and returns
// a *DomainError instead of propagating NaN/Inf into the output.
func PredictTTS(b *Batch) ([]float64, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, b.Len())
	for i := range out {
		tts, err := predictOne(b.At(i), i)
		if err != nil {
			return nil, err
		}
		out[i] = tts
	}
	return out, nil
}

// Predict evaluates the correlation for a single specimen.
func Predict(s Sample) (float64, error) {
	return predictOne(s, 0)
}

func predictOne(s Sample, idx int) (float64, error) {
	if s.Fluence <= 0 {
		return 0, &DomainError{Index: idx, Field: "fluence", Value: s.Fluence}
	}

	a, bCoeff := CoefficientsFor(s.ProductForm)

	phi := s.Fluence * fluenceScale
	tempF := 1.8*s.TempC + 32

	// Matrix damage term
	tts1 := a * degFToC * 1.8943e-12 *
		math.Pow(phi, 0.5695) *
		math.Pow(tempF/550, -5.47) *
		math.Pow(0.09+s.P/0.012, 0.216) *
		math.Pow(1.66+math.Pow(s.Ni, 8.54)/0.63, 0.39) *
		math.Pow(s.Mn/1.36, 0.3)

	// Copper precipitation term: saturated growth in log-fluence times
	// clipped effective copper
	m := bCoeff *
		math.Max(math.Min(113.87*(math.Log(phi)-math.Log(4.5e20)), 612.6), 0) *
		math.Pow(tempF/550, -5.45) *
		math.Pow(0.1+s.P/0.012, -0.098) *
		math.Pow(0.168+math.Pow(s.Ni, 0.58)/0.63, 0.73)

	cuEff := math.Max(math.Min(s.Cu, CuMax)-CuOffset, 0)
	tts2 := degFToC * m * cuEff

	return tts1 + tts2, nil
}
