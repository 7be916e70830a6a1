package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpv-lab/embrittlement/internal/baseline"
	"github.com/rpv-lab/embrittlement/internal/config"
	"github.com/rpv-lab/embrittlement/internal/e900"
	"github.com/rpv-lab/embrittlement/internal/runs"
	"github.com/rpv-lab/embrittlement/internal/server"
)

var version = "dev"

// Exit codes: dataset problems and computation problems are
// distinguishable for callers scripting around the tool.
const (
	exitOK          = 0
	exitDataError   = 1
	exitComputation = 2
)

func main() {
	dataPath := flag.String("data", config.DefaultDataPath, "Path to the surveillance dataset CSV")
	threshold := flag.Float64("threshold", config.DefaultThreshold, "RMSE threshold (Celsius) for a validated baseline")
	dbPath := flag.String("db", "", "Optional SQLite database for run history")
	outPath := flag.String("out", "", "Optional path for a JSON copy of the report")
	serve := flag.Bool("serve", false, "Serve the report and prediction API over HTTP after evaluating")
	port := flag.Int("port", 8080, "HTTP server port (with -serve)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Embrittlement Baseline v%s\n", version)
		os.Exit(exitOK)
	}

	cfg := config.Config{
		Port:      *port,
		DataPath:  *dataPath,
		DBPath:    *dbPath,
		Threshold: *threshold,
		Version:   version,
	}

	log.Printf("Embrittlement Baseline v%s", version)

	report, err := baseline.Run(cfg)
	if err != nil {
		reportFailure(err)
		if !*serve {
			os.Exit(exitCodeFor(err))
		}
		log.Printf("Warning: serving without a baseline report")
	} else {
		report.WriteText(os.Stdout)
	}

	// Optional run history persistence
	var store *runs.Store
	if cfg.DBPath != "" {
		store, err = runs.Open(cfg.DBPath)
		if err != nil {
			log.Printf("Warning: run history not available: %v", err)
		} else if report != nil {
			if err := store.Save(report); err != nil {
				log.Printf("Warning: could not record run: %v", err)
			} else {
				log.Printf("Recorded run %s in %s", report.RunID, cfg.DBPath)
			}
		}
	}

	// Optional JSON export
	if *outPath != "" && report != nil {
		if err := writeReportJSON(report, *outPath); err != nil {
			log.Printf("Warning: could not write report: %v", err)
		} else {
			log.Printf("Wrote report to %s", *outPath)
		}
	}

	if !*serve {
		if store != nil {
			store.Close()
		}
		return
	}

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(cfg.Port, 10)
	if err != nil {
		log.Fatalf("Failed to find available port: %v", err)
	}
	if availablePort != cfg.Port {
		log.Printf("Port %d in use, using port %d instead", cfg.Port, availablePort)
		cfg.Port = availablePort
	}

	srv := server.New(cfg, report, store)

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Received %v signal, shutting down...", sig)
		if err := srv.Stop(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
}

// reportFailure prints a diagnostic for a failed evaluation without
// crashing; the caller decides the exit code.
func reportFailure(err error) {
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("ERROR: cannot find the dataset: %v\n", err)
		return
	}
	var derr *e900.DomainError
	if errors.As(err, &derr) {
		fmt.Printf("ERROR: computation failed: %v\n", err)
		return
	}
	fmt.Printf("ERROR: %v\n", err)
}

// exitCodeFor maps failure kinds to exit codes: dataset problems to
// exitDataError, numeric-domain problems to exitComputation.
func exitCodeFor(err error) int {
	var derr *e900.DomainError
	if errors.As(err, &derr) {
		return exitComputation
	}
	return exitDataError
}

// writeReportJSON saves a machine-readable copy of the report
func writeReportJSON(report *baseline.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// findAvailablePort finds an available port, starting from the given port.
// If the port is in use, it tries subsequent ports up to maxAttempts times.
func findAvailablePort(startPort int, maxAttempts int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		addr := fmt.Sprintf(":%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
