package craftnet

import (
	"fmt"

	"github.com/yalue/onnxruntime_go"
)

// TensorLookup is the result of resolving one named tensor against a model's
// declared inputs and outputs. Missing names are reported, not raised; the
// caller decides whether an absent tensor is fatal.
type TensorLookup struct {
	Name  string
	Found bool
	Info  onnxruntime_go.InputOutputInfo
}

// LookupTensors resolves names against the model at path. The returned slice
// matches the input order; entries for unknown names have Found=false.
func LookupTensors(path string, names []string) ([]TensorLookup, error) {
	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model info: %w", err)
	}
	return resolveTensors(inputs, outputs, names), nil
}

// resolveTensors matches names against declared tensor info. Order of the
// results follows the requested names.
func resolveTensors(inputs, outputs []onnxruntime_go.InputOutputInfo, names []string) []TensorLookup {
	byName := make(map[string]onnxruntime_go.InputOutputInfo, len(inputs)+len(outputs))
	for _, info := range inputs {
		byName[info.Name] = info
	}
	for _, info := range outputs {
		byName[info.Name] = info
	}

	results := make([]TensorLookup, len(names))
	for i, name := range names {
		info, ok := byName[name]
		results[i] = TensorLookup{Name: name, Found: ok, Info: info}
	}
	return results
}

// selectModelTensors picks the network's input and output tensors, honoring
// configured name overrides. Without overrides the model must declare exactly
// one input and one output.
func selectModelTensors(inputs, outputs []onnxruntime_go.InputOutputInfo, inputName, outputName string) (onnxruntime_go.InputOutputInfo, onnxruntime_go.InputOutputInfo, error) {
	var zero onnxruntime_go.InputOutputInfo

	if inputName == "" {
		if len(inputs) != 1 {
			return zero, zero, fmt.Errorf("expected 1 input, got %d (set an input name to choose one)", len(inputs))
		}
		inputName = inputs[0].Name
	}
	if outputName == "" {
		if len(outputs) != 1 {
			return zero, zero, fmt.Errorf("expected 1 output, got %d (set an output name to choose one)", len(outputs))
		}
		outputName = outputs[0].Name
	}

	in := resolveTensors(inputs, nil, []string{inputName})[0]
	if !in.Found {
		return zero, zero, fmt.Errorf("input tensor %q not declared by model", inputName)
	}
	out := resolveTensors(nil, outputs, []string{outputName})[0]
	if !out.Found {
		return zero, zero, fmt.Errorf("output tensor %q not declared by model", outputName)
	}

	if len(in.Info.Dimensions) != 4 {
		return zero, zero, fmt.Errorf("expected 4D input tensor, got %dD", len(in.Info.Dimensions))
	}
	return in.Info, out.Info, nil
}

// modelInfo fetches the model's declared tensors and selects the input and
// output the session should bind.
func modelInfo(config Config) (onnxruntime_go.InputOutputInfo, onnxruntime_go.InputOutputInfo, error) {
	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(config.ModelPath)
	if err != nil {
		return onnxruntime_go.InputOutputInfo{}, onnxruntime_go.InputOutputInfo{},
			fmt.Errorf("failed to get model input/output info: %w", err)
	}
	return selectModelTensors(inputs, outputs, config.InputName, config.OutputName)
}
