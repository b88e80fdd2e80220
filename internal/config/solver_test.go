package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/vfi/internal/model"
)

func TestDefaultSolverConfig(t *testing.T) {
	cfg := DefaultSolverConfig()

	if cfg.Alpha == nil || *cfg.Alpha != 0.4 {
		t.Errorf("Expected Alpha 0.4, got %v", cfg.Alpha)
	}
	if cfg.GridSize == nil || *cfg.GridSize != 1000 {
		t.Errorf("Expected GridSize 1000, got %v", cfg.GridSize)
	}

	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params() error: %v", err)
	}
	if p != model.DefaultParams() {
		t.Errorf("Params() = %+v, want %+v", p, model.DefaultParams())
	}
}

func TestZeroSolverConfig_GettersFallBack(t *testing.T) {
	cfg := &SolverConfig{}
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params() error: %v", err)
	}
	if p != model.DefaultParams() {
		t.Errorf("empty config Params() = %+v, want defaults", p)
	}
	if cfg.GetWorkers() != 1 {
		t.Errorf("GetWorkers() = %d, want 1", cfg.GetWorkers())
	}
	if cfg.GetXTol() != 1e-5 {
		t.Errorf("GetXTol() = %v, want 1e-5", cfg.GetXTol())
	}
	if s := cfg.OptimizerSettings(); s.XTol != 1e-5 {
		t.Errorf("OptimizerSettings().XTol = %v, want 1e-5", s.XTol)
	}
}

func TestLoadSolverConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "solver.json")

	testJSON := `{
  "beta": 0.9,
  "grid_size": 250,
  "workers": 4
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadSolverConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetBeta() != 0.9 {
		t.Errorf("GetBeta() = %v, want 0.9", cfg.GetBeta())
	}
	if cfg.GetGridSize() != 250 {
		t.Errorf("GetGridSize() = %d, want 250", cfg.GetGridSize())
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("GetWorkers() = %d, want 4", cfg.GetWorkers())
	}
	// omitted fields keep defaults
	if cfg.GetAlpha() != 0.4 {
		t.Errorf("GetAlpha() = %v, want default 0.4", cfg.GetAlpha())
	}
	if cfg.Alpha != nil {
		t.Errorf("Alpha should stay nil when omitted")
	}
}

func TestLoadSolverConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantSub string
	}{
		{"wrong extension", write("solver.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "absent.json"), "stat"},
		{"bad json", write("bad.json", "{"), "parse"},
		{"beta out of range", write("beta.json", `{"beta": 1.5}`), "beta"},
		{"grid min above one", write("gmin.json", `{"grid_min": 2, "grid_max": 5}`), "grid_min"},
		{"zero workers", write("workers.json", `{"workers": 0}`), "workers"},
		{"negative x_tol", write("xtol.json", `{"x_tol": -1}`), "x_tol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSolverConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadSolverConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.json")
	if err := os.WriteFile(p, make([]byte, 1024*1024+1), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSolverConfig(p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too-large error, got %v", err)
	}
}

func TestParams_InvalidCombination(t *testing.T) {
	cfg := &SolverConfig{}
	cfg.GridMax = ptrFloat64(0.0001)
	_, err := cfg.Params()
	if !errors.Is(err, model.ErrInvalidParams) {
		t.Errorf("Params() error = %v, want ErrInvalidParams", err)
	}
}

func TestDefaultsFileMatchesDefaultParams(t *testing.T) {
	cfg, err := LoadSolverConfig(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("loading defaults file: %v", err)
	}
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("defaults file invalid: %v", err)
	}
	if p != model.DefaultParams() {
		t.Errorf("defaults file = %+v, want %+v", p, model.DefaultParams())
	}
}
