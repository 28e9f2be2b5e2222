package prediction

import (
	"errors"
	"fmt"
	"math"

	"github.com/globalsolution/ecoprev/internal/model"
)

// PolicyResult is the policy endpoint's success body.
type PolicyResult struct {
	Ano   any    `json:"Ano"`
	Label string `json:"Classe Predita"`
}

// EmissionResult is the emission endpoint's success body.
type EmissionResult struct {
	Ano  any     `json:"Ano"`
	Full float64 `json:"Predicao_com_renovaveis"`
	Zero float64 `json:"Predicao_sem_renovaveis"`
	Diff float64 `json:"Diferenca"`
}

// Service holds the two loaded models for the lifetime of the process.
// It has no mutable state and is safe for concurrent use.
type Service struct {
	classifier model.Classifier
	regressor  model.Regressor
}

// NewService creates the prediction service.
func NewService(classifier model.Classifier, regressor model.Regressor) *Service {
	return &Service{
		classifier: classifier,
		regressor:  regressor,
	}
}

// Ready reports whether both models are present.
func (s *Service) Ready() bool {
	return s != nil && s.classifier != nil && s.regressor != nil
}

// CheckSchemas verifies that models declaring their training columns match
// the records built for them.
func (s *Service) CheckSchemas() error {
	var errs []error
	if err := model.CheckSchema(s.classifier, PolicyColumns()); err != nil {
		errs = append(errs, fmt.Errorf("policy model: %w", err))
	}
	if err := model.CheckSchema(s.regressor, EmissionColumns()); err != nil {
		errs = append(errs, fmt.Errorf("emission model: %w", err))
	}
	return errors.Join(errs...)
}

// PredictPolicy classifies the policy level for a payload.
func (s *Service) PredictPolicy(p Payload) (*PolicyResult, error) {
	if err := Validate(p, PolicyFields); err != nil {
		return nil, err
	}
	if s.classifier == nil {
		return nil, &ModelInvocationError{Err: model.ErrNotLoaded}
	}

	features, err := BuildPolicyFeatures(p)
	if err != nil {
		return nil, &ModelInvocationError{Model: s.classifier.Name(), Err: err}
	}

	class, err := classify(s.classifier, features.Vector())
	if err != nil {
		return nil, &ModelInvocationError{Model: s.classifier.Name(), Err: err}
	}

	label, err := Label(class)
	if err != nil {
		return nil, err
	}

	return &PolicyResult{Ano: p[ColYear], Label: label}, nil
}

// EstimateEmission runs the regressor once and derives the renewables delta.
func (s *Service) EstimateEmission(p Payload) (*EmissionResult, error) {
	if err := Validate(p, EmissionFields); err != nil {
		return nil, err
	}
	if s.regressor == nil {
		return nil, &ModelInvocationError{Err: model.ErrNotLoaded}
	}

	features, err := BuildEmissionFeatures(p)
	if err != nil {
		return nil, &ModelInvocationError{Model: s.regressor.Name(), Err: err}
	}

	full, err := predict(s.regressor, features.Vector())
	if err != nil {
		return nil, &ModelInvocationError{Model: s.regressor.Name(), Err: err}
	}

	zero := full + features.RenewablesSum()
	diff := zero - full
	if !finite(zero) || !finite(diff) {
		return nil, &ModelInvocationError{
			Model: s.regressor.Name(),
			Err:   fmt.Errorf("estimativa sem renováveis não é finita: %v", zero),
		}
	}

	return &EmissionResult{
		Ano:  p[ColYear],
		Full: full,
		Zero: zero,
		Diff: diff,
	}, nil
}

func classify(m model.Classifier, f model.Features) (class int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", m.Name(), r)
		}
	}()
	return m.Classify(f)
}

func predict(m model.Regressor, f model.Features) (y float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", m.Name(), r)
		}
	}()
	y, err = m.Predict(f)
	if err == nil && !finite(y) {
		err = fmt.Errorf("%s returned a non-finite value: %v", m.Name(), y)
	}
	return y, err
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
