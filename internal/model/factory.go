package model

import (
	"fmt"
)

// Config holds model configuration.
type Config struct {
	Type Type
	Path string

	// ONNX params
	ONNX ONNXConfig
}

// Factory creates empty models ready to be loaded from an artifact.
type Factory struct {
	onnxLibraryPath string
}

// NewFactory creates a new model factory.
func NewFactory(onnxLibraryPath string) *Factory {
	return &Factory{onnxLibraryPath: onnxLibraryPath}
}

// NewClassifier creates a classifier for the configured artifact type.
func (f *Factory) NewClassifier(cfg Config) (LoadableClassifier, error) {
	switch cfg.Type {
	case TypeForest:
		return NewForestClassifier(), nil

	case TypePMML:
		return NewPMMLClassifier(), nil

	case TypeONNX:
		return NewONNXClassifier(f.onnxConfig(cfg)), nil

	default:
		return nil, fmt.Errorf("unsupported classifier type: %s", cfg.Type)
	}
}

// NewRegressor creates a regressor for the configured artifact type.
func (f *Factory) NewRegressor(cfg Config) (LoadableRegressor, error) {
	switch cfg.Type {
	case TypeLinear:
		return NewLinearRegressor(), nil

	case TypePMML:
		return NewPMMLRegressor(), nil

	case TypeONNX:
		return NewONNXRegressor(f.onnxConfig(cfg)), nil

	default:
		return nil, fmt.Errorf("unsupported regressor type: %s", cfg.Type)
	}
}

func (f *Factory) onnxConfig(cfg Config) ONNXConfig {
	onnx := cfg.ONNX
	if onnx.LibraryPath == "" {
		onnx.LibraryPath = f.onnxLibraryPath
	}
	return onnx
}
