package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tetrix-game/tetrix/internal/challenge"
	"github.com/tetrix-game/tetrix/internal/config"
	"github.com/tetrix-game/tetrix/internal/core"
	"github.com/tetrix-game/tetrix/internal/games/tetrix"
	"github.com/tetrix-game/tetrix/internal/storage"
)

// newLogger builds the charm logger used by every command.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetrix",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// tuiLogger logs to --log-file, or nowhere: stderr belongs to the TUI.
func tuiLogger() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return newLogger(f), func() { f.Close() }, nil
}

// loader returns the challenge source selected by --levels.
func loader() *challenge.Loader {
	if flagLevelsDir != "" {
		return challenge.NewLoader(flagLevelsDir)
	}
	return challenge.Builtin()
}

// configureGames loads settings and hands them to the tetrix modes.
func configureGames(logger *log.Logger) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}
	config.ApplyPreset(&cfg, preset)

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	logger.Debug("settings loaded", "preset", preset, "grid", settings.GridSize, "multiplier", settings.Multiplier)

	tetrix.Configure(tetrix.Setup{
		Settings:  settings,
		Challenge: flagChallenge,
		Loader:    loader(),
		Logger:    logger,
	})
	return nil
}

// runtimeConfig sizes the screen from the attached terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the database, or returns nil so play can go on without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("could not open database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}
