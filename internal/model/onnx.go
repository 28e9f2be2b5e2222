package model

import (
	"errors"
	"fmt"
	"io"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"
)

// ONNXConfig names the graph's input and output tensors.
type ONNXConfig struct {
	// LibraryPath points at the onnxruntime shared library. Empty uses the
	// platform default search path.
	LibraryPath string
	InputName   string
	OutputName  string
}

// Tensor names written by skl2onnx for scikit-learn estimators.
const (
	DefaultONNXInput           = "float_input"
	DefaultONNXClassifierLabel = "output_label"
	DefaultONNXRegressorOutput = "variable"
)

var (
	runtimeOnce sync.Once
	runtimeErr  error
)

// initRuntime initializes the onnxruntime environment once per process.
func initRuntime(libraryPath string) error {
	runtimeOnce.Do(func() {
		if onnxruntime.IsInitialized() {
			return
		}
		if libraryPath != "" {
			onnxruntime.SetSharedLibraryPath(libraryPath)
		}
		if err := onnxruntime.InitializeEnvironment(); err != nil {
			runtimeErr = fmt.Errorf("failed to initialize ONNX runtime: %w", err)
		}
	})
	return runtimeErr
}

// onnxSession wraps a dynamic session with a single input and a single output.
type onnxSession struct {
	cfg     ONNXConfig
	session *onnxruntime.DynamicAdvancedSession
}

func (s *onnxSession) load(r io.Reader) error {
	if err := initRuntime(s.cfg.LibraryPath); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSessionWithONNXData(data,
		[]string{s.cfg.InputName}, []string{s.cfg.OutputName}, options)
	if err != nil {
		return fmt.Errorf("failed to load ONNX model: %w", err)
	}

	s.close()
	s.session = session
	return nil
}

func (s *onnxSession) input(f Features) (*onnxruntime.Tensor[float32], error) {
	if s.session == nil {
		return nil, ErrNotLoaded
	}
	if f.Len() == 0 {
		return nil, errors.New("empty feature record")
	}
	shape := onnxruntime.NewShape(1, int64(f.Len()))
	tensor, err := onnxruntime.NewTensor(shape, f.Float32())
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	return tensor, nil
}

func (s *onnxSession) close() {
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
}

// ONNXClassifier runs a classifier graph whose label output is an int64
// tensor of shape [1].
type ONNXClassifier struct {
	onnxSession
}

// NewONNXClassifier creates an empty classifier; call Load before use.
func NewONNXClassifier(cfg ONNXConfig) *ONNXClassifier {
	if cfg.InputName == "" {
		cfg.InputName = DefaultONNXInput
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultONNXClassifierLabel
	}
	return &ONNXClassifier{onnxSession{cfg: cfg}}
}

// Name returns the model name.
func (m *ONNXClassifier) Name() string {
	return "onnx_classifier"
}

// Classify runs inference and returns the label tensor's only element.
func (m *ONNXClassifier) Classify(f Features) (int, error) {
	input, err := m.input(f)
	if err != nil {
		return 0, err
	}
	defer input.Destroy()

	output, err := onnxruntime.NewEmptyTensor[int64](onnxruntime.NewShape(1))
	if err != nil {
		return 0, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := m.session.Run([]onnxruntime.Value{input}, []onnxruntime.Value{output}); err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}
	return int(output.GetData()[0]), nil
}

// Load creates the inference session from the graph bytes.
func (m *ONNXClassifier) Load(r io.Reader) error {
	return m.load(r)
}

// Close releases the session.
func (m *ONNXClassifier) Close() {
	m.close()
}

// ONNXRegressor runs a regression graph whose output is a float32 tensor of
// shape [1, 1].
type ONNXRegressor struct {
	onnxSession
}

// NewONNXRegressor creates an empty regressor; call Load before use.
func NewONNXRegressor(cfg ONNXConfig) *ONNXRegressor {
	if cfg.InputName == "" {
		cfg.InputName = DefaultONNXInput
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultONNXRegressorOutput
	}
	return &ONNXRegressor{onnxSession{cfg: cfg}}
}

// Name returns the model name.
func (m *ONNXRegressor) Name() string {
	return "onnx_regressor"
}

// Predict runs inference and returns the output tensor's only element.
func (m *ONNXRegressor) Predict(f Features) (float64, error) {
	input, err := m.input(f)
	if err != nil {
		return 0, err
	}
	defer input.Destroy()

	output, err := onnxruntime.NewEmptyTensor[float32](onnxruntime.NewShape(1, 1))
	if err != nil {
		return 0, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := m.session.Run([]onnxruntime.Value{input}, []onnxruntime.Value{output}); err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}
	return float64(output.GetData()[0]), nil
}

// Load creates the inference session from the graph bytes.
func (m *ONNXRegressor) Load(r io.Reader) error {
	return m.load(r)
}

// Close releases the session.
func (m *ONNXRegressor) Close() {
	m.close()
}
