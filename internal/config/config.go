package config

// DefaultDataPath is the conventional location of the surveillance dataset.
const DefaultDataPath = "data/df_plotter_cm2.csv"

// DefaultThreshold is the RMSE (Celsius) below which the physics baseline
// is considered validated.
const DefaultThreshold = 15.0

// Config holds the application configuration
type Config struct {
	Port      int
	DataPath  string
	DBPath    string
	Threshold float64
	Version   string
}
