package cli

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/globalsolution/ecoprev/internal/config"
	"github.com/globalsolution/ecoprev/internal/model"
	"github.com/globalsolution/ecoprev/internal/prediction"
	"github.com/globalsolution/ecoprev/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeArtifacts saves a one-leaf forest predicting class 1 and a linear
// model over the given emission columns.
func writeArtifacts(t *testing.T, cfg *config.Config, emissionNames []string) {
	t.Helper()

	store := storage.NewModelStorage(storage.New(cfg.Models.Dir, quietLogger()))

	forest := model.NewForestClassifierFromTrees(prediction.PolicyColumns(), 4, []model.DecisionTree{
		{Nodes: []model.TreeNode{{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 1, IsLeaf: true}}},
	})
	if err := store.SaveModel(cfg.Models.Policy.Path, forest); err != nil {
		t.Fatalf("save forest: %v", err)
	}

	coefs := make([]float64, len(emissionNames))
	linear := model.NewLinearRegressorFromCoefficients(emissionNames, coefs, 100)
	if err := store.SaveModel(cfg.Models.Emission.Path, linear); err != nil {
		t.Fatalf("save linear: %v", err)
	}
}

func TestLoadModels(t *testing.T) {
	cfg := config.Default()
	cfg.Models.Dir = t.TempDir()
	writeArtifacts(t, cfg, prediction.EmissionColumns())

	loaded, err := loadModels(cfg, quietLogger())
	if err != nil {
		t.Fatalf("loadModels: %v", err)
	}
	defer loaded.Close()

	if len(loaded.infos) != 2 {
		t.Fatalf("expected 2 model infos, got %d", len(loaded.infos))
	}
	if loaded.infos[0].Name != "policy" || loaded.infos[1].Name != "emission" {
		t.Errorf("unexpected infos %+v", loaded.infos)
	}
	for _, info := range loaded.infos {
		if !info.Exists || info.SHA256 == "" {
			t.Errorf("%s: expected loaded artifact with checksum, got %+v", info.Name, info)
		}
	}

	p, err := prediction.DecodePayload(strings.NewReader(`{"Year":2021,"Other_renewables":1,"Solar":2,"Wind":3,"Hydropower":4}`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := loaded.service.EstimateEmission(p)
	if err != nil {
		t.Fatalf("EstimateEmission: %v", err)
	}
	if res.Full != 100 || res.Zero != 110 || res.Diff != 10 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestLoadModels_SchemaMismatch(t *testing.T) {
	cfg := config.Default()
	cfg.Models.Dir = t.TempDir()
	writeArtifacts(t, cfg, []string{"Year", "Solar", "Wind", "Hydropower", "Other_renewables"})

	_, err := loadModels(cfg, quietLogger())
	if err == nil {
		t.Fatal("expected feature name mismatch")
	}
	if !strings.Contains(err.Error(), "feature names do not match") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadModels_MissingArtifact(t *testing.T) {
	cfg := config.Default()
	cfg.Models.Dir = t.TempDir()

	if _, err := loadModels(cfg, quietLogger()); err == nil {
		t.Error("expected error for missing artifacts")
	}
}

func TestModelConfig(t *testing.T) {
	mc := modelConfig(config.ModelConfig{
		Type:       "onnx",
		Path:       "m.onnx",
		InputName:  "input",
		OutputName: "label",
	})

	if mc.Type != model.TypeONNX {
		t.Errorf("expected onnx type, got %s", mc.Type)
	}
	if mc.ONNX.InputName != "input" || mc.ONNX.OutputName != "label" {
		t.Errorf("unexpected onnx config %+v", mc.ONNX)
	}
}
