package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// TreeNode is one node of a flattened decision tree.
// Children are indexes into the owning tree's node slice.
type TreeNode struct {
	FeatureIdx   int       `json:"feature_idx"`
	Threshold    float64   `json:"threshold"`
	LeftChild    int       `json:"left_child"`
	RightChild   int       `json:"right_child"`
	ClassLabel   int       `json:"class_label"`
	IsLeaf       bool      `json:"is_leaf"`
	Distribution []float64 `json:"distribution,omitempty"`
}

// DecisionTree is a flattened binary tree; node 0 is the root.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

// leaf walks the tree and returns the leaf reached by values.
func (t *DecisionTree) leaf(values []float64) (*TreeNode, error) {
	if len(t.Nodes) == 0 {
		return nil, errors.New("empty tree")
	}
	idx := 0
	// A well-formed tree reaches a leaf in at most len(Nodes) steps.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := &t.Nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(values) {
			return nil, errors.New("feature index out of range")
		}
		if values[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return nil, errors.New("invalid tree state")
		}
	}
	return nil, errors.New("tree contains a cycle")
}

// ForestClassifier is a random forest stored as JSON.
// Each tree votes with its leaf class distribution (one-hot when the leaf has
// none) and the class with the highest mean probability wins; ties go to the
// lowest class index.
type ForestClassifier struct {
	featureNames []string
	classes      int
	trees        []DecisionTree
}

type forestState struct {
	FeatureNames []string       `json:"feature_names"`
	Classes      int            `json:"classes"`
	Trees        []DecisionTree `json:"trees"`
}

// NewForestClassifier creates an empty forest; call Load before use.
func NewForestClassifier() *ForestClassifier {
	return &ForestClassifier{}
}

// NewForestClassifierFromTrees builds a forest in memory.
func NewForestClassifierFromTrees(featureNames []string, classes int, trees []DecisionTree) *ForestClassifier {
	return &ForestClassifier{
		featureNames: featureNames,
		classes:      classes,
		trees:        trees,
	}
}

// Name returns the model name.
func (m *ForestClassifier) Name() string {
	return string(TypeForest)
}

// FeatureNames returns the training columns declared in the artifact.
func (m *ForestClassifier) FeatureNames() []string {
	return m.featureNames
}

// Classify returns the class index with the highest averaged vote.
func (m *ForestClassifier) Classify(f Features) (int, error) {
	if len(m.trees) == 0 {
		return 0, ErrNotLoaded
	}
	if err := checkWidth(f, len(m.featureNames)); err != nil {
		return 0, err
	}

	votes := make([]float64, m.classes)
	for i := range m.trees {
		leaf, err := m.trees[i].leaf(f.Values)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		if len(leaf.Distribution) > 0 {
			votes = grow(votes, len(leaf.Distribution))
			total := 0.0
			for _, p := range leaf.Distribution {
				total += p
			}
			if total <= 0 {
				return 0, fmt.Errorf("tree %d: empty leaf distribution", i)
			}
			for c, p := range leaf.Distribution {
				votes[c] += p / total
			}
			continue
		}
		if leaf.ClassLabel < 0 {
			return 0, fmt.Errorf("tree %d: negative class label %d", i, leaf.ClassLabel)
		}
		votes = grow(votes, leaf.ClassLabel+1)
		votes[leaf.ClassLabel]++
	}

	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best, nil
}

func grow(votes []float64, n int) []float64 {
	for len(votes) < n {
		votes = append(votes, 0)
	}
	return votes
}

// Save serializes the forest to a writer.
func (m *ForestClassifier) Save(w io.Writer) error {
	if len(m.trees) == 0 {
		return ErrNotLoaded
	}
	state := forestState{
		FeatureNames: m.featureNames,
		Classes:      m.classes,
		Trees:        m.trees,
	}
	return json.NewEncoder(w).Encode(state)
}

// Load deserializes the forest from a reader.
func (m *ForestClassifier) Load(r io.Reader) error {
	var state forestState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}
	if len(state.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range state.Trees {
		if len(state.Trees[i].Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", i)
		}
	}

	m.featureNames = state.FeatureNames
	m.classes = state.Classes
	m.trees = state.Trees
	return nil
}
