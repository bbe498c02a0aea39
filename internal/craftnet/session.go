package craftnet

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/yalue/onnxruntime_go"
)

// EnvLibraryPath overrides the ONNX Runtime shared library location.
const EnvLibraryPath = "CRAFTDET_ONNX_LIB"

// setupEnvironment points onnxruntime at its shared library and initializes
// the process-wide environment once.
func setupEnvironment() error {
	if path := os.Getenv(EnvLibraryPath); path != "" {
		onnxruntime_go.SetSharedLibraryPath(path)
	} else {
		switch runtime.GOOS {
		case "darwin":
			onnxruntime_go.SetSharedLibraryPath("libonnxruntime.dylib")
		case "windows":
			onnxruntime_go.SetSharedLibraryPath("onnxruntime.dll")
		default:
			onnxruntime_go.SetSharedLibraryPath("libonnxruntime.so")
		}
	}

	if !onnxruntime_go.IsInitialized() {
		if err := onnxruntime_go.InitializeEnvironment(); err != nil {
			return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
		}
	}
	return nil
}

// createSession builds the inference session for the configured model.
func createSession(config Config, inputInfo, outputInfo onnxruntime_go.InputOutputInfo,
) (*onnxruntime_go.DynamicAdvancedSession, error) {
	sessionOptions, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() {
		if derr := sessionOptions.Destroy(); derr != nil {
			fmt.Fprintf(os.Stderr, "Failed to destroy session options: %v\n", derr)
		}
	}()

	if config.UseGPU {
		if err := configureCUDA(sessionOptions, config); err != nil {
			return nil, err
		}
	}

	if config.NumThreads > 0 {
		if err := sessionOptions.SetIntraOpNumThreads(config.NumThreads); err != nil {
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(config.ModelPath,
		[]string{inputInfo.Name}, []string{outputInfo.Name}, sessionOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	return session, nil
}

// configureCUDA appends the CUDA execution provider.
func configureCUDA(sessionOptions *onnxruntime_go.SessionOptions, config Config) error {
	cudaOpts, err := onnxruntime_go.NewCUDAProviderOptions()
	if err != nil {
		return fmt.Errorf("failed to create CUDA provider options (GPU may not be available): %w", err)
	}
	defer func() {
		if derr := cudaOpts.Destroy(); derr != nil {
			fmt.Fprintf(os.Stderr, "Failed to destroy CUDA provider options: %v\n", derr)
		}
	}()

	if err := cudaOpts.Update(map[string]string{"device_id": strconv.Itoa(config.DeviceID)}); err != nil {
		return fmt.Errorf("failed to update CUDA provider options: %w", err)
	}
	if err := sessionOptions.AppendExecutionProviderCUDA(cudaOpts); err != nil {
		return fmt.Errorf("failed to append CUDA execution provider: %w", err)
	}
	return nil
}
