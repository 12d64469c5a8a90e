package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridcfg/internal/config"
	"github.com/vk/gridcfg/internal/ctxlog"
)

// App encapsulates the compiler's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the schema model
// already loaded.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var schemaPaths []string
	if appConfig.SchemasPath != "" {
		schemaPaths = append(schemaPaths, appConfig.SchemasPath)
	}

	model, err := loader.Load(ctx, schemaPaths...)
	if err != nil {
		// A failure to load the schema model is a fatal startup error.
		panic(fmt.Errorf("failed to load schema model: %w", err))
	}
	logger.Debug("Schema model loaded.", "groups", len(model.Groups))

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
	}
}

// Model returns the loaded schema model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
