package models

// PredictRequest carries aligned per-specimen inputs for a prediction call
type PredictRequest struct {
	Cu          []float64 `json:"cu"`
	Ni          []float64 `json:"ni"`
	P           []float64 `json:"p"`
	Mn          []float64 `json:"mn"`
	TempC       []float64 `json:"temperature_c"`
	Fluence     []float64 `json:"fluence_n_cm2"`
	ProductForm []string  `json:"product_form"`
}

// PredictResponse contains predicted shifts, one per input specimen
type PredictResponse struct {
	Predictions []float64 `json:"predictions_celsius"`
	Samples     int       `json:"samples"`
}

// InfoResponse describes the running service
type InfoResponse struct {
	Version       string `json:"version"`
	DatasetLoaded bool   `json:"dataset_loaded"`
	HistoryLoaded bool   `json:"history_loaded"`
}
