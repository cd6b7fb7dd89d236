package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultReconstructionConfig(t *testing.T) {
	cfg := DefaultReconstructionConfig()

	if cfg.SearchRadius == nil || *cfg.SearchRadius != 0.03 {
		t.Errorf("Expected SearchRadius 0.03, got %v", cfg.SearchRadius)
	}
	if cfg.RequestTimeout == nil || *cfg.RequestTimeout != "30s" {
		t.Errorf("Expected RequestTimeout '30s', got %v", cfg.RequestTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
	if diff := cmp.Diff(pipeline.DefaultParams(), cfg.ToParams()); diff != "" {
		t.Errorf("ToParams() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadReconstructionConfig(t *testing.T) {
	path := writeConfig(t, "test_config.json", `{
  "search_radius": 0.05,
  "polynomial_fit": false,
  "polynomial_order": 3,
  "min_neighbors": 8,
  "smoothing_workers": 2,
  "dedup_tolerance": 1e-6,
  "request_timeout": "250ms",
  "listen_addr": "0.0.0.0:9000",
  "run_db_path": "runs.db"
}`)

	cfg, err := LoadReconstructionConfig(path)
	if err != nil {
		t.Fatalf("LoadReconstructionConfig failed: %v", err)
	}

	if got := cfg.GetSearchRadius(); got != 0.05 {
		t.Errorf("GetSearchRadius() = %g, want 0.05", got)
	}
	if cfg.GetPolynomialFit() {
		t.Error("GetPolynomialFit() = true, want false")
	}
	if got := cfg.GetRequestTimeout(); got != 250*time.Millisecond {
		t.Errorf("GetRequestTimeout() = %v, want 250ms", got)
	}
	if got := cfg.GetListenAddr(); got != "0.0.0.0:9000" {
		t.Errorf("GetListenAddr() = %q", got)
	}
	if got := cfg.GetRunDBPath(); got != "runs.db" {
		t.Errorf("GetRunDBPath() = %q", got)
	}

	p := cfg.ToParams()
	if p.Smoothing.PolynomialOrder != 3 || p.Smoothing.MinNeighbors != 8 || p.Smoothing.Workers != 2 {
		t.Errorf("smoothing params not carried over: %+v", p.Smoothing)
	}
	if p.Hull.DedupTolerance != 1e-6 {
		t.Errorf("DedupTolerance = %g, want 1e-6", p.Hull.DedupTolerance)
	}
	// Omitted field keeps its default.
	if p.Hull.Epsilon != 1e-12 {
		t.Errorf("Epsilon = %g, want 1e-12", p.Hull.Epsilon)
	}
}

func TestLoadReconstructionConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"non json extension", "cfg.yaml", `{}`, ".json extension"},
		{"malformed", "cfg.json", `{"search_radius": `, "failed to parse"},
		{"zero radius", "cfg.json", `{"search_radius": 0}`, "search_radius must be positive"},
		{"order too high", "cfg.json", `{"polynomial_order": 7}`, "polynomial_order"},
		{"too few neighbours", "cfg.json", `{"min_neighbors": 2}`, "min_neighbors"},
		{"negative workers", "cfg.json", `{"smoothing_workers": -1}`, "smoothing_workers"},
		{"bad timeout", "cfg.json", `{"request_timeout": "soon"}`, "invalid request_timeout"},
		{"negative timeout", "cfg.json", `{"request_timeout": "-1s"}`, "request_timeout must be positive"},
		{"zero message size", "cfg.json", `{"max_message_bytes": 0}`, "max_message_bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadReconstructionConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadReconstructionConfigMissing(t *testing.T) {
	_, err := LoadReconstructionConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadReconstructionConfigRejectsLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.json")
	data := make([]byte, 1024*1024+1)
	for i := range data {
		data[i] = ' '
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadReconstructionConfig(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("err = %v, want size error", err)
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if diff := cmp.Diff(DefaultReconstructionConfig(), cfg); diff != "" {
		t.Errorf("defaults file drifted from built-in defaults (-builtin +file):\n%s", diff)
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := EmptyReconstructionConfig()

	if cfg.GetSearchRadius() != 0.03 {
		t.Errorf("GetSearchRadius() = %g", cfg.GetSearchRadius())
	}
	if !cfg.GetPolynomialFit() {
		t.Error("GetPolynomialFit() = false")
	}
	if cfg.GetPolynomialOrder() != 2 {
		t.Errorf("GetPolynomialOrder() = %d", cfg.GetPolynomialOrder())
	}
	if cfg.GetMinNeighbors() != 3 {
		t.Errorf("GetMinNeighbors() = %d", cfg.GetMinNeighbors())
	}
	if cfg.GetListenAddr() != "localhost:50061" {
		t.Errorf("GetListenAddr() = %q", cfg.GetListenAddr())
	}
	if cfg.GetRequestTimeout() != 30*time.Second {
		t.Errorf("GetRequestTimeout() = %v", cfg.GetRequestTimeout())
	}
	if cfg.GetMaxMessageBytes() != 16*1024*1024 {
		t.Errorf("GetMaxMessageBytes() = %d", cfg.GetMaxMessageBytes())
	}
	if cfg.GetRunDBPath() != "" || cfg.GetDebugAddr() != "" {
		t.Error("run log and debug routes should be disabled by default")
	}

	bad := "nope"
	cfg.RequestTimeout = &bad
	if cfg.GetRequestTimeout() != 30*time.Second {
		t.Errorf("GetRequestTimeout() on parse error = %v", cfg.GetRequestTimeout())
	}
}
