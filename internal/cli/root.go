package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumelens/internal/config"
	"resumelens/internal/errors"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumelens",
	Short: "Score resumes for ATS compatibility",
	Long: `resumelens extracts text from PDF, DOCX and plain text resumes, checks
that the document really is a resume, and scores it for keyword coverage
against a target role, section completeness and formatting. Every score
comes with concrete suggestions.

It runs as a one-shot CLI, an HTTP API or a queue worker.`,
	SilenceUsage: true,
}

// Execute runs the root command with cfg and logger in its context.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

func fromContext(ctx context.Context) (*config.Config, *errors.Logger, error) {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger, err := getLoggerFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(enqueueCmd)
	rootCmd.AddCommand(versionCmd)
}
