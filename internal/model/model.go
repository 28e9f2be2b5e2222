package model

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

// Type identifies the on-disk format of a model artifact.
type Type string

const (
	// TypeForest is a JSON random forest classifier.
	TypeForest Type = "forest"
	// TypeLinear is a JSON linear regressor.
	TypeLinear Type = "linear"
	// TypePMML is a PMML document (random forest or gradient boosted trees).
	TypePMML Type = "pmml"
	// TypeONNX is an ONNX graph executed by onnxruntime.
	TypeONNX Type = "onnx"
)

// IsValid checks if the model type is known.
func (t Type) IsValid() bool {
	switch t {
	case TypeForest, TypeLinear, TypePMML, TypeONNX:
		return true
	}
	return false
}

// SupportsClassification reports whether the format can hold a classifier.
func (t Type) SupportsClassification() bool {
	return t == TypeForest || t == TypePMML || t == TypeONNX
}

// SupportsRegression reports whether the format can hold a regressor.
func (t Type) SupportsRegression() bool {
	return t == TypeLinear || t == TypePMML || t == TypeONNX
}

// String returns string representation.
func (t Type) String() string {
	return string(t)
}

// ErrNotLoaded is returned when a model is used before its artifact was loaded.
var ErrNotLoaded = errors.New("model not loaded")

// Features is an ordered feature record: column names and their values.
type Features struct {
	Names  []string
	Values []float64
}

// Len returns the number of columns.
func (f Features) Len() int {
	return len(f.Values)
}

// Map returns the record keyed by column name.
func (f Features) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(f.Names))
	for i, name := range f.Names {
		if i < len(f.Values) {
			m[name] = f.Values[i]
		}
	}
	return m
}

// Float32 returns the values converted for runtimes that take float32 tensors.
func (f Features) Float32() []float32 {
	out := make([]float32, len(f.Values))
	for i, v := range f.Values {
		out[i] = float32(v)
	}
	return out
}

// Classifier maps a feature record to a class index.
type Classifier interface {
	// Name returns the model name.
	Name() string

	// Classify returns the predicted class index.
	Classify(f Features) (int, error)
}

// Regressor maps a feature record to a continuous estimate.
type Regressor interface {
	// Name returns the model name.
	Name() string

	// Predict returns the estimate.
	Predict(f Features) (float64, error)
}

// Loadable is implemented by every artifact-backed model.
type Loadable interface {
	Load(r io.Reader) error
}

// LoadableClassifier is a classifier that is populated from an artifact.
type LoadableClassifier interface {
	Classifier
	Loadable
}

// LoadableRegressor is a regressor that is populated from an artifact.
type LoadableRegressor interface {
	Regressor
	Loadable
}

// Schema is implemented by models whose artifact declares the training columns.
type Schema interface {
	FeatureNames() []string
}

// CheckSchema verifies that m was trained on exactly names, in order.
// Models that do not declare their columns pass unchecked.
func CheckSchema(m any, names []string) error {
	s, ok := m.(Schema)
	if !ok {
		return nil
	}
	declared := s.FeatureNames()
	if len(declared) == 0 {
		return nil
	}
	if !slices.Equal(declared, names) {
		return fmt.Errorf("feature mismatch: model expects %q, record has %q", declared, names)
	}
	return nil
}

func checkWidth(f Features, want int) error {
	if want > 0 && f.Len() != want {
		return fmt.Errorf("expected %d features, got %d", want, f.Len())
	}
	return nil
}
