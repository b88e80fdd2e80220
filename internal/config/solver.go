package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/vfi/internal/model"
	"github.com/banshee-data/vfi/internal/optim"
)

// DefaultConfigPath is the path to the canonical solver defaults file.
const DefaultConfigPath = "config/solver.defaults.json"

// SolverConfig is the JSON form of the solver parameters. Every field is
// optional; the Get* accessors fall back to the defaults for nil fields, so
// partial configs are safe.
type SolverConfig struct {
	// Model
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`

	// Grid
	GridMin  *float64 `json:"grid_min,omitempty"`
	GridMax  *float64 `json:"grid_max,omitempty"`
	GridSize *int     `json:"grid_size,omitempty"`

	// Iteration
	Tolerance *float64 `json:"tolerance,omitempty"`
	MaxIter   *int     `json:"max_iter,omitempty"`

	// Per-point optimization
	Workers *int     `json:"workers,omitempty"`
	XTol    *float64 `json:"x_tol,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultSolverConfig returns a SolverConfig with every field set to its default.
func DefaultSolverConfig() *SolverConfig {
	d := model.DefaultParams()
	return &SolverConfig{
		Alpha:     ptrFloat64(d.Alpha),
		Beta:      ptrFloat64(d.Beta),
		GridMin:   ptrFloat64(d.GridMin),
		GridMax:   ptrFloat64(d.GridMax),
		GridSize:  ptrInt(d.GridSize),
		Tolerance: ptrFloat64(d.Tolerance),
		MaxIter:   ptrInt(d.MaxIter),
		Workers:   ptrInt(1),
		XTol:      ptrFloat64(optim.DefaultXTol),
	}
}

// LoadSolverConfig loads a SolverConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadSolverConfig(path string) (*SolverConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &SolverConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that are set. Cross-field constraints (grid_max
// above grid_min and so on) are checked by model.Params.Validate via Params.
func (c *SolverConfig) Validate() error {
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	if c.XTol != nil && !(*c.XTol > 0) {
		return fmt.Errorf("x_tol must be positive, got %v", *c.XTol)
	}
	if c.GridSize != nil && *c.GridSize < 2 {
		return fmt.Errorf("grid_size must be at least 2, got %d", *c.GridSize)
	}
	if c.MaxIter != nil && *c.MaxIter < 1 {
		return fmt.Errorf("max_iter must be at least 1, got %d", *c.MaxIter)
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	return nil
}

// Params assembles and validates model parameters from the config.
func (c *SolverConfig) Params() (model.Params, error) {
	p := model.Params{
		Alpha:     c.GetAlpha(),
		Beta:      c.GetBeta(),
		GridMin:   c.GetGridMin(),
		GridMax:   c.GetGridMax(),
		GridSize:  c.GetGridSize(),
		Tolerance: c.GetTolerance(),
		MaxIter:   c.GetMaxIter(),
	}
	if err := p.Validate(); err != nil {
		return model.Params{}, err
	}
	return p, nil
}

// OptimizerSettings returns the per-point optimizer settings.
func (c *SolverConfig) OptimizerSettings() optim.Settings {
	return optim.Settings{XTol: c.GetXTol()}
}

// GetAlpha returns alpha or the default.
func (c *SolverConfig) GetAlpha() float64 {
	if c.Alpha == nil {
		return 0.4
	}
	return *c.Alpha
}

// GetBeta returns beta or the default.
func (c *SolverConfig) GetBeta() float64 {
	if c.Beta == nil {
		return 0.96
	}
	return *c.Beta
}

// GetGridMin returns grid_min or the default.
func (c *SolverConfig) GetGridMin() float64 {
	if c.GridMin == nil {
		return 0.001
	}
	return *c.GridMin
}

// GetGridMax returns grid_max or the default.
func (c *SolverConfig) GetGridMax() float64 {
	if c.GridMax == nil {
		return 90.0
	}
	return *c.GridMax
}

// GetGridSize returns grid_size or the default.
func (c *SolverConfig) GetGridSize() int {
	if c.GridSize == nil {
		return 1000
	}
	return *c.GridSize
}

// GetTolerance returns tolerance or the default.
func (c *SolverConfig) GetTolerance() float64 {
	if c.Tolerance == nil {
		return 1e-6
	}
	return *c.Tolerance
}

// GetMaxIter returns max_iter or the default.
func (c *SolverConfig) GetMaxIter() int {
	if c.MaxIter == nil {
		return 600
	}
	return *c.MaxIter
}

// GetWorkers returns workers or the default (sequential).
func (c *SolverConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetXTol returns x_tol or the default.
func (c *SolverConfig) GetXTol() float64 {
	if c.XTol == nil {
		return optim.DefaultXTol
	}
	return *c.XTol
}
