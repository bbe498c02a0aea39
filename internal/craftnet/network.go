package craftnet

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/yalue/onnxruntime_go"

	"github.com/MeKo-Tech/craftdet/internal/heatmap"
	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// Predictor is the contract the rest of the pipeline depends on: one
// synchronous prediction per image, yielding the half-resolution text/link
// score pair. The network's architecture and weights live behind it.
type Predictor interface {
	Predict(img image.Image) (*heatmap.Pair, error)
}

// Network runs the character-region model with ONNX Runtime.
type Network struct {
	config     Config
	session    *onnxruntime_go.DynamicAdvancedSession
	inputInfo  onnxruntime_go.InputOutputInfo
	outputInfo onnxruntime_go.InputOutputInfo
	mu         sync.RWMutex
}

// NewNetwork loads the model and prepares an inference session.
func NewNetwork(config Config) (*Network, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	slog.Debug("Initializing network",
		"model_path", config.ModelPath,
		"gpu_enabled", config.UseGPU,
		"num_threads", config.NumThreads)

	if err := setupEnvironment(); err != nil {
		return nil, err
	}

	inputInfo, outputInfo, err := modelInfo(config)
	if err != nil {
		return nil, err
	}

	session, err := createSession(config, inputInfo, outputInfo)
	if err != nil {
		return nil, err
	}

	slog.Debug("Network initialized")
	return &Network{
		config:     config,
		session:    session,
		inputInfo:  inputInfo,
		outputInfo: outputInfo,
	}, nil
}

// Close releases the inference session.
func (n *Network) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.session != nil {
		if err := n.session.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to destroy session: %v\n", err)
		}
		n.session = nil
	}
	return nil
}

// Predict normalizes the image, runs inference, and splits the two-channel
// output into a heatmap pair. The output map is half the input resolution.
func (n *Network) Predict(img image.Image) (*heatmap.Pair, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	data, width, height, err := utils.NormalizeImage(img)
	if err != nil {
		return nil, fmt.Errorf("preprocessing failed: %w", err)
	}

	n.mu.RLock()
	session := n.session
	n.mu.RUnlock()
	if session == nil {
		return nil, errors.New("network session is closed")
	}

	inputTensor, err := onnxruntime_go.NewTensor(
		onnxruntime_go.NewShape(1, int64(height), int64(width), 3), data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer func() {
		if derr := inputTensor.Destroy(); derr != nil {
			fmt.Fprintf(os.Stderr, "Error destroying input tensor: %v\n", derr)
		}
	}()

	outputs := []onnxruntime_go.Value{nil}
	if err := session.Run([]onnxruntime_go.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	defer func() {
		if derr := outputs[0].Destroy(); derr != nil {
			fmt.Fprintf(os.Stderr, "Error destroying output tensor: %v\n", derr)
		}
	}()

	return splitOutput(outputs[0])
}

// splitOutput converts the network's NHWC [1, H, W, 2] output tensor into a
// heatmap pair.
func splitOutput(value onnxruntime_go.Value) (*heatmap.Pair, error) {
	tensor, ok := value.(*onnxruntime_go.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("expected float32 tensor, got %T", value)
	}
	shape := tensor.GetShape()
	if len(shape) != 4 {
		return nil, fmt.Errorf("expected 4D output tensor, got %dD", len(shape))
	}
	if shape[0] != 1 || shape[3] != 2 {
		return nil, fmt.Errorf("expected output shape [1,H,W,2], got %v", shape)
	}

	h := int(shape[1])
	w := int(shape[2])
	data := tensor.GetData()
	if len(data) != h*w*2 {
		return nil, fmt.Errorf("output data length %d does not match shape %v", len(data), shape)
	}

	pair := heatmap.NewPair(w, h)
	for i := range h * w {
		pair.Text[i] = data[2*i]
		pair.Link[i] = data[2*i+1]
	}
	return pair, nil
}
