package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpv-lab/embrittlement/internal/baseline"
	"github.com/rpv-lab/embrittlement/internal/config"
)

func TestRoutesMountedUnderAPI(t *testing.T) {
	report := &baseline.Report{RunID: "run-1", RMSE: 9.9, Threshold: 15, Validated: true}
	srv := New(config.Config{Port: 8080, Version: "test"}, report, nil)

	req := httptest.NewRequest("GET", "/api/report", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var got baseline.Report
	json.NewDecoder(w.Body).Decode(&got)
	if got.RunID != "run-1" {
		t.Errorf("Expected run ID 'run-1', got '%s'", got.RunID)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := New(config.Config{Port: 8080}, nil, nil)

	req := httptest.NewRequest("GET", "/api/nope", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
