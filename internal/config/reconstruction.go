package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/pointmesh/internal/surface/hull"
	"github.com/banshee-data/pointmesh/internal/surface/mls"
	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/pointmesh.defaults.json"

const (
	defaultListenAddr      = "localhost:50061"
	defaultRequestTimeout  = 30 * time.Second
	defaultMaxMessageBytes = 16 * 1024 * 1024
)

// ReconstructionConfig is the root configuration of the service and the
// reconstruction core. Fields omitted from a file fall back to the Get*
// defaults, so partial configs are safe.
type ReconstructionConfig struct {
	// Smoothing params
	SearchRadius     *float64 `json:"search_radius,omitempty"`
	PolynomialFit    *bool    `json:"polynomial_fit,omitempty"`
	PolynomialOrder  *int     `json:"polynomial_order,omitempty"`
	MinNeighbors     *int     `json:"min_neighbors,omitempty"`
	SmoothingWorkers *int     `json:"smoothing_workers,omitempty"`

	// Hull params
	DedupTolerance *float64 `json:"dedup_tolerance,omitempty"`
	HullEpsilon    *float64 `json:"hull_epsilon,omitempty"`

	// Service params
	ListenAddr      *string `json:"listen_addr,omitempty"`
	RequestTimeout  *string `json:"request_timeout,omitempty"` // duration string like "30s"
	MaxMessageBytes *int    `json:"max_message_bytes,omitempty"`
	RunDBPath       *string `json:"run_db_path,omitempty"` // empty disables the run log
	DebugAddr       *string `json:"debug_addr,omitempty"`  // empty disables debug routes
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyReconstructionConfig returns a config with every field unset.
func EmptyReconstructionConfig() *ReconstructionConfig {
	return &ReconstructionConfig{}
}

// DefaultReconstructionConfig returns a config with every field set to its
// built-in default.
func DefaultReconstructionConfig() *ReconstructionConfig {
	return &ReconstructionConfig{
		SearchRadius:     ptrFloat64(mls.DefaultSearchRadius),
		PolynomialFit:    ptrBool(true),
		PolynomialOrder:  ptrInt(mls.DefaultPolynomialOrder),
		MinNeighbors:     ptrInt(mls.DefaultMinNeighbors),
		SmoothingWorkers: ptrInt(0),
		DedupTolerance:   ptrFloat64(hull.DefaultDedupTolerance),
		HullEpsilon:      ptrFloat64(hull.DefaultEpsilon),
		ListenAddr:       ptrString(defaultListenAddr),
		RequestTimeout:   ptrString(defaultRequestTimeout.String()),
		MaxMessageBytes:  ptrInt(defaultMaxMessageBytes),
		RunDBPath:        ptrString(""),
		DebugAddr:        ptrString(""),
	}
}

// LoadReconstructionConfig loads a config from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadReconstructionConfig(path string) (*ReconstructionConfig, error) {
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

	cfg := EmptyReconstructionConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *ReconstructionConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/surface/pipeline/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadReconstructionConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ReconstructionConfig) Validate() error {
	if c.SearchRadius != nil && *c.SearchRadius <= 0 {
		return fmt.Errorf("search_radius must be positive, got %g", *c.SearchRadius)
	}
	if c.PolynomialOrder != nil && (*c.PolynomialOrder < 1 || *c.PolynomialOrder > 4) {
		return fmt.Errorf("polynomial_order must be between 1 and 4, got %d", *c.PolynomialOrder)
	}
	if c.MinNeighbors != nil && *c.MinNeighbors < mls.DefaultMinNeighbors {
		return fmt.Errorf("min_neighbors must be at least %d, got %d", mls.DefaultMinNeighbors, *c.MinNeighbors)
	}
	if c.SmoothingWorkers != nil && *c.SmoothingWorkers < 0 {
		return fmt.Errorf("smoothing_workers must be non-negative, got %d", *c.SmoothingWorkers)
	}
	if c.DedupTolerance != nil && *c.DedupTolerance < 0 {
		return fmt.Errorf("dedup_tolerance must be non-negative, got %g", *c.DedupTolerance)
	}
	if c.HullEpsilon != nil && *c.HullEpsilon < 0 {
		return fmt.Errorf("hull_epsilon must be non-negative, got %g", *c.HullEpsilon)
	}
	if c.RequestTimeout != nil && *c.RequestTimeout != "" {
		d, err := time.ParseDuration(*c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout '%s': %w", *c.RequestTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request_timeout must be positive, got %s", d)
		}
	}
	if c.MaxMessageBytes != nil && *c.MaxMessageBytes <= 0 {
		return fmt.Errorf("max_message_bytes must be positive, got %d", *c.MaxMessageBytes)
	}
	return nil
}

// GetSearchRadius returns the search_radius value or the default.
func (c *ReconstructionConfig) GetSearchRadius() float64 {
	if c.SearchRadius == nil {
		return mls.DefaultSearchRadius
	}
	return *c.SearchRadius
}

// GetPolynomialFit returns the polynomial_fit value or the default.
func (c *ReconstructionConfig) GetPolynomialFit() bool {
	if c.PolynomialFit == nil {
		return true
	}
	return *c.PolynomialFit
}

// GetPolynomialOrder returns the polynomial_order value or the default.
func (c *ReconstructionConfig) GetPolynomialOrder() int {
	if c.PolynomialOrder == nil {
		return mls.DefaultPolynomialOrder
	}
	return *c.PolynomialOrder
}

// GetMinNeighbors returns the min_neighbors value or the default.
func (c *ReconstructionConfig) GetMinNeighbors() int {
	if c.MinNeighbors == nil {
		return mls.DefaultMinNeighbors
	}
	return *c.MinNeighbors
}

// GetSmoothingWorkers returns the smoothing_workers value or the default.
func (c *ReconstructionConfig) GetSmoothingWorkers() int {
	if c.SmoothingWorkers == nil {
		return 0
	}
	return *c.SmoothingWorkers
}

// GetDedupTolerance returns the dedup_tolerance value or the default.
func (c *ReconstructionConfig) GetDedupTolerance() float64 {
	if c.DedupTolerance == nil {
		return hull.DefaultDedupTolerance
	}
	return *c.DedupTolerance
}

// GetHullEpsilon returns the hull_epsilon value or the default.
func (c *ReconstructionConfig) GetHullEpsilon() float64 {
	if c.HullEpsilon == nil {
		return hull.DefaultEpsilon
	}
	return *c.HullEpsilon
}

// GetListenAddr returns the listen_addr value or the default.
func (c *ReconstructionConfig) GetListenAddr() string {
	if c.ListenAddr == nil || *c.ListenAddr == "" {
		return defaultListenAddr
	}
	return *c.ListenAddr
}

// GetRequestTimeout parses and returns the RequestTimeout as a time.Duration.
func (c *ReconstructionConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == nil || *c.RequestTimeout == "" {
		return defaultRequestTimeout
	}
	d, err := time.ParseDuration(*c.RequestTimeout)
	if err != nil || d <= 0 {
		return defaultRequestTimeout // default on parse error
	}
	return d
}

// GetMaxMessageBytes returns the max_message_bytes value or the default.
func (c *ReconstructionConfig) GetMaxMessageBytes() int {
	if c.MaxMessageBytes == nil {
		return defaultMaxMessageBytes
	}
	return *c.MaxMessageBytes
}

// GetRunDBPath returns the run_db_path value; empty disables the run log.
func (c *ReconstructionConfig) GetRunDBPath() string {
	if c.RunDBPath == nil {
		return ""
	}
	return *c.RunDBPath
}

// GetDebugAddr returns the debug_addr value; empty disables debug routes.
func (c *ReconstructionConfig) GetDebugAddr() string {
	if c.DebugAddr == nil {
		return ""
	}
	return *c.DebugAddr
}

// ToParams converts the config into the immutable parameters consumed by
// the reconstruction pipeline.
func (c *ReconstructionConfig) ToParams() pipeline.Params {
	return pipeline.Params{
		Smoothing: mls.Params{
			SearchRadius:    c.GetSearchRadius(),
			PolynomialFit:   c.GetPolynomialFit(),
			PolynomialOrder: c.GetPolynomialOrder(),
			MinNeighbors:    c.GetMinNeighbors(),
			Workers:         c.GetSmoothingWorkers(),
		},
		Hull: hull.Params{
			DedupTolerance: c.GetDedupTolerance(),
			FlatTolerance:  hull.DefaultFlatTolerance,
			Epsilon:        c.GetHullEpsilon(),
		},
	}
}
