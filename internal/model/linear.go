package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// LinearRegressor evaluates an ordinary least squares fit exported as JSON.
// Prediction: intercept + sum(coefficients[i] * x[i])
type LinearRegressor struct {
	featureNames []string
	coefficients []float64
	intercept    float64
	loaded       bool
}

type linearState struct {
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// NewLinearRegressor creates an empty regressor; call Load before use.
func NewLinearRegressor() *LinearRegressor {
	return &LinearRegressor{}
}

// NewLinearRegressorFromCoefficients builds a regressor in memory.
func NewLinearRegressorFromCoefficients(featureNames []string, coefficients []float64, intercept float64) *LinearRegressor {
	return &LinearRegressor{
		featureNames: featureNames,
		coefficients: coefficients,
		intercept:    intercept,
		loaded:       true,
	}
}

// Name returns the model name.
func (m *LinearRegressor) Name() string {
	return string(TypeLinear)
}

// FeatureNames returns the training columns declared in the artifact.
func (m *LinearRegressor) FeatureNames() []string {
	return m.featureNames
}

// Coefficients returns a copy of the fitted coefficients and the intercept.
func (m *LinearRegressor) Coefficients() ([]float64, float64) {
	return append([]float64(nil), m.coefficients...), m.intercept
}

// Predict returns the linear estimate for f.
func (m *LinearRegressor) Predict(f Features) (float64, error) {
	if !m.loaded {
		return 0, ErrNotLoaded
	}
	if err := checkWidth(f, len(m.coefficients)); err != nil {
		return 0, err
	}

	y := m.intercept
	for i, c := range m.coefficients {
		y += c * f.Values[i]
	}
	return y, nil
}

// Save serializes the regressor to a writer.
func (m *LinearRegressor) Save(w io.Writer) error {
	if !m.loaded {
		return ErrNotLoaded
	}
	return json.NewEncoder(w).Encode(linearState{
		FeatureNames: m.featureNames,
		Coefficients: m.coefficients,
		Intercept:    m.intercept,
	})
}

// Load deserializes the regressor from a reader.
func (m *LinearRegressor) Load(r io.Reader) error {
	var state linearState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}
	if len(state.Coefficients) == 0 {
		return errors.New("linear model has no coefficients")
	}
	if len(state.FeatureNames) > 0 && len(state.FeatureNames) != len(state.Coefficients) {
		return fmt.Errorf("linear model declares %d feature names but %d coefficients",
			len(state.FeatureNames), len(state.Coefficients))
	}

	m.featureNames = state.FeatureNames
	m.coefficients = state.Coefficients
	m.intercept = state.Intercept
	m.loaded = true
	return nil
}
