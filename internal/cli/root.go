package cli

import (
	"context"
	"fmt"

	"resumescore/internal/config"
	"resumescore/internal/engine"
	"resumescore/internal/errors"
	"resumescore/internal/match"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumescore",
	Short: "A CLI tool for scoring parsed resumes against role profiles",
	Long: `Resumescore evaluates parsed resume facts against configurable role
profiles and experience-level bands. It produces a 0-100 score broken down
by category and criterion, together with findings that explain deductions.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// buildEngine assembles the scoring engine for one-shot CLI invocations:
// reference tables from config, optional embedding oracle, no file watcher.
func buildEngine(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*engine.Engine, *config.ReferenceStore, error) {
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return nil, nil, fmt.Errorf("failed to apply vault secrets: %w", err)
	}

	ref, err := config.LoadReference(cfg.Reference.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	store := config.NewReferenceStore(ref)

	oracle, err := match.NewEmbeddingOracle(ctx, cfg.Oracle, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding oracle: %w", err)
	}

	// Keep the interface nil when the oracle is disabled; a typed nil would
	// look enabled to the matcher.
	var o match.Oracle
	if oracle != nil {
		o = oracle
	}

	return engine.New(store, cfg, o, logger), store, nil
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(criterionCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
