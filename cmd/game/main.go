package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ai-superpower/internal/config"
	"ai-superpower/internal/engine"
	"ai-superpower/internal/game"
	"ai-superpower/internal/i18n"
	"ai-superpower/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	game.SaveDir = cfg.SaveDir

	// The TUI owns the terminal, so logs go to a file.
	log, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey, log)
	if err != nil {
		fmt.Printf("Error creating engine: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	cat, err := i18n.Load(cfg.Locale)
	if err != nil {
		fmt.Printf("Error loading locale strings: %v\n", err)
		os.Exit(1)
	}

	orch := game.New(log, cfg.Locale)
	if err := tui.Run(orch, eng, cat, log); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(path string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{path}
	zapCfg.ErrorOutputPaths = []string{path}
	return zapCfg.Build()
}
