package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"mathmark/internal/config"
	"mathmark/internal/element"
	"mathmark/internal/logging"
	"mathmark/internal/oracle"
	"mathmark/internal/resolver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mathmark",
		Short: "Resolve tutor annotation phrases to canvas bounding boxes",
	}
	configPath string
	dbPath     string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the session database (SQLite); overrides storage.path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(sessionCmd)
}

// app bundles what every command needs after flag parsing.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func initApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) canvas() element.CanvasDimensions {
	return element.CanvasDimensions{Width: a.cfg.Canvas.Width, Height: a.cfg.Canvas.Height}
}

// resolverOptions wires the configured oracle, if any, into the cascade.
func (a *app) resolverOptions(ctx context.Context) []resolver.Option {
	opts := []resolver.Option{
		resolver.WithCanvas(a.canvas()),
		resolver.WithLogger(a.logger),
		resolver.WithStructuralOptions(a.cfg.Structural),
	}

	oc := a.cfg.Oracle
	if oc.APIKey == "" && oc.Provider != "ollama" {
		a.logger.Info("oracle disabled: no API key configured", zap.String("provider", oc.Provider))
		return opts
	}
	o, err := oracle.New(ctx, oracle.Options{
		Provider: oc.Provider,
		APIKey:   oc.APIKey,
		Model:    oc.Model,
		BaseURL:  oc.BaseURL,
		Timeout:  time.Duration(oc.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		a.logger.Warn("oracle disabled", zap.Error(err))
		return opts
	}
	locator := oracle.NewLocator(o, oracle.NewCache(oc.CacheSize), a.logger)
	return append(opts, resolver.WithLocator(locator))
}

// loadElements reads a JSON array of {"id", "bounds"} objects.
func loadElements(path string) ([]element.SemanticElement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wire []element.Wire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	elems := make([]element.SemanticElement, 0, len(wire))
	for _, w := range wire {
		elems = append(elems, element.FromWire(w))
	}
	return elems, nil
}

// writeElements writes elems in the same format loadElements reads.
func writeElements(w io.Writer, elems []element.SemanticElement) error {
	wire := make([]element.Wire, 0, len(elems))
	for _, e := range elems {
		wire = append(wire, e.Wire())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}

// loadSnapshot reads an image file and returns it as base64 for the oracle tier.
func loadSnapshot(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	snap, err := oracle.DecodeSnapshot(data)
	if err != nil {
		return "", err
	}
	return snap.Base64(), nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
