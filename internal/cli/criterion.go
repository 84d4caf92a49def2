package cli

import (
	"context"
	"fmt"
	"strings"

	"resumescore/internal/common"
	"resumescore/internal/types"

	"github.com/spf13/cobra"
)

var criterionCmd = &cobra.Command{
	Use:   "criterion [facts-file]",
	Short: "Score a single criterion for a parsed resume",
	Long: `Score one criterion in isolation, using the same pipeline as a full
scoring run. Useful for debugging reference data changes or inspecting why a
particular criterion scored the way it did.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if criterionID == "" {
			return fmt.Errorf("--id is required")
		}
		if criterionConfig.OutputFormat == "" {
			criterionConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(criterionConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCriterion,
}

var criterionConfig common.CommandConfig
var criterionID string
var criterionRole string
var criterionLevel string

func init() {
	criterionCmd.Flags().StringVarP(&criterionConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	criterionCmd.Flags().StringVar(&criterionConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	criterionCmd.Flags().StringVar(&criterionID, "id", "", "Criterion id to score (required)")
	criterionCmd.Flags().StringVarP(&criterionRole, "role", "r", "", "Target role profile (default from config)")
	criterionCmd.Flags().StringVarP(&criterionLevel, "level", "l", "", "Target experience level (default from config)")

	_ = criterionCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runCriterion(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	eng, _, err := buildEngine(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	role := criterionRole
	if role == "" {
		role = cfg.Engine.DefaultRole
	}
	level := criterionLevel
	if level == "" {
		level = cfg.Engine.DefaultLevel
	}

	logDetails := func(facts *types.DocumentFacts, cmdCfg common.CommandConfig) {
		logger.Info("Starting single criterion scoring",
			"criterion", criterionID,
			"role", role,
			"level", level,
			"output_format", cmdCfg.OutputFormat)
	}

	criterionOperation := func(ctx context.Context, facts *types.DocumentFacts) (*types.CriterionScore, error) {
		return eng.ScoreCriterion(ctx, facts, role, level, criterionID)
	}

	err = common.RunScoreCommand(
		cmd.Context(),
		logger,
		criterionConfig,
		args[0],
		cfg.App.MaxFileSize,
		criterionOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score criterion %s (known criteria: %s): %w",
			criterionID, strings.Join(eng.Criteria(), ", "), err)
	}
	logger.Info("Criterion scoring completed successfully")
	return nil
}
