package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/globalsolution/ecoprev/internal/config"
	"github.com/globalsolution/ecoprev/internal/model"
	"github.com/globalsolution/ecoprev/internal/prediction"
	"github.com/globalsolution/ecoprev/internal/storage"
)

// loadedModels owns the two models built at startup.
type loadedModels struct {
	service *prediction.Service
	infos   []storage.ModelInfo
	closers []func()
}

// Close releases native resources held by the models.
func (l *loadedModels) Close() {
	for _, c := range l.closers {
		c()
	}
}

func modelConfig(mc config.ModelConfig) model.Config {
	return model.Config{
		Type: model.Type(mc.Type),
		Path: mc.Path,
		ONNX: model.ONNXConfig{
			InputName:  mc.InputName,
			OutputName: mc.OutputName,
		},
	}
}

// loadModels reads both artifacts and verifies their declared columns.
func loadModels(cfg *config.Config, log *slog.Logger) (*loadedModels, error) {
	store := storage.NewModelStorage(storage.New(cfg.Models.Dir, log))
	factory := model.NewFactory(cfg.ONNX.LibraryPath)
	loaded := &loadedModels{}

	policyCfg := modelConfig(cfg.Models.Policy)
	classifier, err := factory.NewClassifier(policyCfg)
	if err != nil {
		return nil, err
	}
	info, err := store.LoadModel("policy", policyCfg.Type, policyCfg.Path, classifier)
	if err != nil {
		return nil, err
	}
	loaded.infos = append(loaded.infos, info)
	loaded.addCloser(classifier)

	emissionCfg := modelConfig(cfg.Models.Emission)
	regressor, err := factory.NewRegressor(emissionCfg)
	if err != nil {
		loaded.Close()
		return nil, err
	}
	info, err = store.LoadModel("emission", emissionCfg.Type, emissionCfg.Path, regressor)
	if err != nil {
		loaded.Close()
		return nil, err
	}
	loaded.infos = append(loaded.infos, info)
	loaded.addCloser(regressor)

	loaded.service = prediction.NewService(classifier, regressor)
	if err := loaded.service.CheckSchemas(); err != nil {
		loaded.Close()
		return nil, fmt.Errorf("feature names do not match: %w", err)
	}
	return loaded, nil
}

func (l *loadedModels) addCloser(m any) {
	if c, ok := m.(interface{ Close() }); ok {
		l.closers = append(l.closers, c.Close)
	}
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Load the configured models and show their details",
	Long: `Load both model artifacts the way the server does at startup and print
their type, location, checksum and declared feature columns.`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Quiet logger: only the table or JSON goes to stdout.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	models, err := loadModels(cfg, log)
	if err != nil {
		return err
	}
	defer models.Close()

	if jsonOut {
		data, err := json.MarshalIndent(models.infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, info := range models.infos {
		fmt.Printf("%s (%s)\n", info.Name, info.Type)
		fmt.Printf("  Path:     %s\n", info.Path)
		fmt.Printf("  Size:     %d bytes\n", info.Size)
		fmt.Printf("  SHA256:   %s\n", info.SHA256)
		fmt.Printf("  Updated:  %s\n", info.UpdatedAt.Format("2006-01-02 15:04:05"))
		if len(info.Features) > 0 {
			fmt.Printf("  Features: %s\n", strings.Join(info.Features, ", "))
		}
	}

	return nil
}
