package config

import (
	"fmt"
)

// Config represents the complete configuration for the craftdet application.
// It covers all commands (detect, synth, kernel, serve) and supports loading
// from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Network (predict collaborator) settings
	Network NetworkConfig `mapstructure:"network" yaml:"network" json:"network"`

	// Box extraction settings
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction" json:"extraction"`

	// Target synthesis settings
	Synthesis SynthesisConfig `mapstructure:"synthesis" yaml:"synthesis" json:"synthesis"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Parallelism for batch operations
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// NetworkConfig holds ONNX network runner settings. Empty tensor names bind
// the model's single declared input/output.
type NetworkConfig struct {
	ModelPath  string `mapstructure:"model_path" yaml:"model_path" json:"model_path"`
	InputName  string `mapstructure:"input_name" yaml:"input_name" json:"input_name"`
	OutputName string `mapstructure:"output_name" yaml:"output_name" json:"output_name"`
	NumThreads int    `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
	UseGPU     bool   `mapstructure:"use_gpu" yaml:"use_gpu" json:"use_gpu"`
	DeviceID   int    `mapstructure:"device_id" yaml:"device_id" json:"device_id"`
}

// ExtractionConfig holds box extraction thresholds. Threshold ranges are a
// documented caller precondition ([0,1]) and are not validated here.
type ExtractionConfig struct {
	DetectionThreshold float32 `mapstructure:"detection_threshold" yaml:"detection_threshold" json:"detection_threshold"`
	TextThreshold      float32 `mapstructure:"text_threshold" yaml:"text_threshold" json:"text_threshold"`
	LinkThreshold      float32 `mapstructure:"link_threshold" yaml:"link_threshold" json:"link_threshold"`
	SizeThreshold      int     `mapstructure:"size_threshold" yaml:"size_threshold" json:"size_threshold"`
}

// SynthesisConfig holds training-target synthesis settings.
type SynthesisConfig struct {
	KernelSize    int     `mapstructure:"kernel_size" yaml:"kernel_size" json:"kernel_size"`
	DistanceRatio float64 `mapstructure:"distance_ratio" yaml:"distance_ratio" json:"distance_ratio"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string `mapstructure:"host" yaml:"host" json:"host"`
	Port        int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec  int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Network: NetworkConfig{
			ModelPath:  "models/craft.onnx",
			InputName:  "",
			OutputName: "",
			NumThreads: 0,
			UseGPU:     false,
			DeviceID:   0,
		},
		Extraction: ExtractionConfig{
			DetectionThreshold: 0.7,
			TextThreshold:      0.4,
			LinkThreshold:      0.4,
			SizeThreshold:      10,
		},
		Synthesis: SynthesisConfig{
			KernelSize:    512,
			DistanceRatio: 1.5,
		},
		Server: ServerConfig{
			Host:        "localhost",
			Port:        8080,
			MaxUploadMB: 50,
			TimeoutSec:  60,
		},
		Workers: 4,
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	if c.Extraction.SizeThreshold < 0 {
		return fmt.Errorf("extraction.size_threshold must be non-negative, got %d", c.Extraction.SizeThreshold)
	}
	if c.Synthesis.KernelSize <= 0 {
		return fmt.Errorf("synthesis.kernel_size must be positive, got %d", c.Synthesis.KernelSize)
	}
	if c.Synthesis.DistanceRatio <= 0 {
		return fmt.Errorf("synthesis.distance_ratio must be positive, got %f", c.Synthesis.DistanceRatio)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
