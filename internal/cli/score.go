package cli

import (
	"context"
	"fmt"

	"resumescore/internal/common"
	"resumescore/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [facts-file]",
	Short: "Score a parsed resume against a role profile",
	Long: `Score a parsed resume against a role profile and experience level.
The command takes one argument: the path to a JSON file holding the parsed
document facts (skills, experience entries, sections, layout signals).`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig
var scoreRole string
var scoreLevel string

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	scoreCmd.Flags().StringVarP(&scoreRole, "role", "r", "", "Target role profile (default from config)")
	scoreCmd.Flags().StringVarP(&scoreLevel, "level", "l", "", "Target experience level (default from config)")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	eng, store, err := buildEngine(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	role := scoreRole
	if role == "" {
		role = cfg.Engine.DefaultRole
	}
	level := scoreLevel
	if level == "" {
		level = cfg.Engine.DefaultLevel
	}

	logDetails := func(facts *types.DocumentFacts, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume scoring",
			"role", role,
			"level", level,
			"reference_version", store.Current().Version,
			"skills", len(facts.Skills),
			"experience_entries", len(facts.Experience),
			"output_format", cmdCfg.OutputFormat)
	}

	scoreOperation := func(ctx context.Context, facts *types.DocumentFacts) (*types.ScoreResult, error) {
		return eng.Score(ctx, facts, role, level)
	}

	err = common.RunScoreCommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args[0],
		cfg.App.MaxFileSize,
		scoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("Resume scoring completed successfully")
	return nil
}
