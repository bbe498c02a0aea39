package craftnet

import (
	"errors"
	"fmt"
	"os"
)

// Config holds configuration for the character-region network runner.
type Config struct {
	ModelPath  string // Path to the ONNX model
	InputName  string // Input tensor name ("" = the model's single input)
	OutputName string // Output tensor name ("" = the model's single output)
	NumThreads int    // CPU threads for inference (0 = auto)
	UseGPU     bool   // Enable the CUDA execution provider
	DeviceID   int    // CUDA device id
}

// DefaultConfig returns the default network configuration.
func DefaultConfig() Config {
	return Config{
		ModelPath:  "models/craft.onnx",
		InputName:  "",
		OutputName: "",
		NumThreads: 0,
		UseGPU:     false,
		DeviceID:   0,
	}
}

func validateConfig(config Config) error {
	if config.ModelPath == "" {
		return errors.New("model path cannot be empty")
	}
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", config.ModelPath)
	}
	return nil
}
