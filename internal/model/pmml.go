package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/asafschers/goscore"
)

// pmmlSchema captures the active columns of the top-level mining model.
type pmmlSchema struct {
	Fields []struct {
		Name      string `xml:"name,attr"`
		UsageType string `xml:"usageType,attr"`
	} `xml:"MiningModel>MiningSchema>MiningField"`
}

func (s pmmlSchema) activeFields() []string {
	var names []string
	for _, f := range s.Fields {
		switch f.UsageType {
		case "target", "predicted", "supplementary":
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

func decodePMML(r io.Reader, model any) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var schema pmmlSchema
	if err := xml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse pmml: %w", err)
	}
	fields := schema.activeFields()
	if len(fields) == 0 {
		return nil, errors.New("pmml: mining schema declares no active fields")
	}
	if err := xml.Unmarshal(data, model); err != nil {
		return nil, fmt.Errorf("parse pmml: %w", err)
	}
	return fields, nil
}

// PMMLClassifier scores a PMML random forest and returns the label with the
// most votes.
type PMMLClassifier struct {
	forest       goscore.RandomForest
	featureNames []string
}

// NewPMMLClassifier creates an empty classifier; call Load before use.
func NewPMMLClassifier() *PMMLClassifier {
	return &PMMLClassifier{}
}

// Name returns the model name.
func (m *PMMLClassifier) Name() string {
	return "pmml_random_forest"
}

// FeatureNames returns the active fields of the mining schema.
func (m *PMMLClassifier) FeatureNames() []string {
	return m.featureNames
}

// Classify returns the winning label parsed as a class index.
func (m *PMMLClassifier) Classify(f Features) (int, error) {
	if len(m.featureNames) == 0 {
		return 0, ErrNotLoaded
	}

	scores, err := m.forest.LabelScores(f.Map())
	if err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, errors.New("pmml: forest produced no votes")
	}

	// Sorted labels make ties deterministic.
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best := labels[0]
	for _, label := range labels[1:] {
		if scores[label] > scores[best] {
			best = label
		}
	}
	return parseClassLabel(best)
}

// Load parses the PMML document.
func (m *PMMLClassifier) Load(r io.Reader) error {
	var forest goscore.RandomForest
	fields, err := decodePMML(r, &forest)
	if err != nil {
		return err
	}
	m.forest = forest
	m.featureNames = fields
	return nil
}

// PMMLRegressor scores a PMML gradient boosted regression model.
type PMMLRegressor struct {
	gbm          goscore.GradientBoostedModel
	featureNames []string
}

// NewPMMLRegressor creates an empty regressor; call Load before use.
func NewPMMLRegressor() *PMMLRegressor {
	return &PMMLRegressor{}
}

// Name returns the model name.
func (m *PMMLRegressor) Name() string {
	return "pmml_gradient_boosting"
}

// FeatureNames returns the active fields of the mining schema.
func (m *PMMLRegressor) FeatureNames() []string {
	return m.featureNames
}

// Predict returns the boosted score for f.
func (m *PMMLRegressor) Predict(f Features) (float64, error) {
	if len(m.featureNames) == 0 {
		return 0, ErrNotLoaded
	}
	return m.gbm.Score(f.Map())
}

// Load parses the PMML document.
func (m *PMMLRegressor) Load(r io.Reader) error {
	var gbm goscore.GradientBoostedModel
	fields, err := decodePMML(r, &gbm)
	if err != nil {
		return err
	}
	m.gbm = gbm
	m.featureNames = fields
	return nil
}

// parseClassLabel accepts integral labels written either as "2" or "2.0".
func parseClassLabel(label string) (int, error) {
	if n, err := strconv.Atoi(label); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(label, 64)
	if err != nil || v != math.Trunc(v) {
		return 0, fmt.Errorf("non-integral class label %q", label)
	}
	return int(v), nil
}
