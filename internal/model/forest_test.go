package model

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// stump splits on feature idx at threshold: left -> left class, right -> right class.
func stump(idx int, threshold float64, left, right int) DecisionTree {
	return DecisionTree{Nodes: []TreeNode{
		{FeatureIdx: idx, Threshold: threshold, LeftChild: 1, RightChild: 2},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: left, IsLeaf: true},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: right, IsLeaf: true},
	}}
}

func TestForestClassifier_Name(t *testing.T) {
	m := NewForestClassifier()
	if m.Name() != "forest" {
		t.Errorf("expected name 'forest', got '%s'", m.Name())
	}
}

func TestForestClassifier_NotLoaded(t *testing.T) {
	m := NewForestClassifier()
	_, err := m.Classify(Features{Values: []float64{1}})
	if !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestForestClassifier_MajorityVote(t *testing.T) {
	names := []string{"a", "b"}
	m := NewForestClassifierFromTrees(names, 4, []DecisionTree{
		stump(0, 10, 0, 3),
		stump(0, 20, 1, 3),
		stump(1, 5, 0, 2),
	})

	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{"all low", []float64{1, 1}, 0},
		{"first feature high", []float64{30, 1}, 3},
		{"both high", []float64{30, 30}, 3},
		// votes: 3, 1, 0 -> tie between classes goes to the lowest index
		{"three way tie", []float64{15, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Classify(Features{Names: names, Values: tt.values})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected class %d, got %d", tt.want, got)
			}
		})
	}
}

func TestForestClassifier_SoftVote(t *testing.T) {
	leaf := func(dist ...float64) TreeNode {
		return TreeNode{FeatureIdx: -1, LeftChild: -1, RightChild: -1, IsLeaf: true, Distribution: dist}
	}
	m := NewForestClassifierFromTrees(nil, 3, []DecisionTree{
		{Nodes: []TreeNode{leaf(6, 4, 0)}},
		{Nodes: []TreeNode{leaf(0, 1, 0)}},
		{Nodes: []TreeNode{leaf(5, 0, 5)}},
	})

	// mean probabilities: class0 = (0.6+0+0.5)/3, class1 = (0.4+1+0)/3
	got, err := m.Classify(Features{Values: []float64{0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("expected class 1, got %d", got)
	}
}

func TestForestClassifier_WrongWidth(t *testing.T) {
	m := NewForestClassifierFromTrees([]string{"a", "b"}, 2, []DecisionTree{stump(0, 1, 0, 1)})
	if _, err := m.Classify(Features{Values: []float64{1}}); err == nil {
		t.Error("expected error for short feature record")
	}
}

func TestForestClassifier_InvalidTree(t *testing.T) {
	tests := []struct {
		name string
		tree DecisionTree
	}{
		{
			name: "child out of range",
			tree: DecisionTree{Nodes: []TreeNode{{FeatureIdx: 0, LeftChild: 5, RightChild: 5}}},
		},
		{
			name: "feature out of range",
			tree: DecisionTree{Nodes: []TreeNode{{FeatureIdx: 7, LeftChild: 0, RightChild: 0}}},
		},
		{
			name: "cycle",
			tree: DecisionTree{Nodes: []TreeNode{{FeatureIdx: 0, Threshold: 10, LeftChild: 0, RightChild: 0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewForestClassifierFromTrees(nil, 2, []DecisionTree{tt.tree})
			if _, err := m.Classify(Features{Values: []float64{1}}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestForestClassifier_SaveLoad(t *testing.T) {
	names := []string{"x"}
	original := NewForestClassifierFromTrees(names, 2, []DecisionTree{stump(0, 0.5, 0, 1)})

	var buf bytes.Buffer
	if err := original.Save(&buf); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded := NewForestClassifier()
	if err := loaded.Load(&buf); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if got := loaded.FeatureNames(); len(got) != 1 || got[0] != "x" {
		t.Errorf("expected feature names [x], got %v", got)
	}

	for _, x := range []float64{0, 1} {
		want, _ := original.Classify(Features{Values: []float64{x}})
		got, err := loaded.Classify(Features{Values: []float64{x}})
		if err != nil {
			t.Fatalf("Classify error: %v", err)
		}
		if got != want {
			t.Errorf("x=%v: expected %d, got %d", x, want, got)
		}
	}
}

func TestForestClassifier_LoadRejectsEmpty(t *testing.T) {
	inputs := []string{
		`{"trees": []}`,
		`{"trees": [{"nodes": []}]}`,
		`not json`,
	}
	for _, in := range inputs {
		m := NewForestClassifier()
		if err := m.Load(strings.NewReader(in)); err == nil {
			t.Errorf("expected error loading %q", in)
		}
	}
}
