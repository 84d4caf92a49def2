package cli

import (
	"fmt"
	"sort"
	"strings"

	"resumescore/internal/common"
	"resumescore/internal/config"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List configured role profiles and experience levels",
	Long: `List the role profiles and experience-level bands the engine scores
against, including required and preferred keywords per role. The listing
reflects the built-in reference data merged with any configured overlay file.`,
	RunE: runRoles,
}

var rolesConfig common.CommandConfig

func init() {
	rolesCmd.Flags().StringVarP(&rolesConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rolesCmd.Flags().StringVar(&rolesConfig.OutputFormat, "format", "", "Output format: json or text")
}

// roleListing is the serializable view of the reference tables.
type roleListing struct {
	Version string                        `json:"version"`
	Roles   map[string]config.RoleProfile `json:"roles"`
	Levels  map[string]config.LevelBand   `json:"levels"`
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	ref, err := config.LoadReference(cfg.Reference.File)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	format := rolesConfig.OutputFormat
	if format == "" {
		format = cfg.App.DefaultFormat
	}

	listing := roleListing{Version: ref.Version, Roles: ref.Roles, Levels: ref.Levels}

	if format == "json" {
		outputHandler := common.NewOutputHandler(logger)
		out := rolesConfig
		out.OutputFormat = "json"
		return outputHandler.HandleOutput(listing, out)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Reference version: %s\n\n", ref.Version))

	output.WriteString("Roles:\n")
	roleIDs := ref.RoleIDs()
	sort.Strings(roleIDs)
	for _, id := range roleIDs {
		role := ref.Roles[id]
		output.WriteString(fmt.Sprintf("  %s (%s)\n", id, role.Name))
		output.WriteString(fmt.Sprintf("    required:  %s\n", strings.Join(role.Required, ", ")))
		output.WriteString(fmt.Sprintf("    preferred: %s\n", strings.Join(role.Preferred, ", ")))
	}

	output.WriteString("\nLevels:\n")
	levelIDs := ref.LevelIDs()
	sort.Strings(levelIDs)
	for _, id := range levelIDs {
		band := ref.Levels[id]
		output.WriteString(fmt.Sprintf("  %-8s %s: %.0f-%.0f years\n", id, band.Name, band.MinYears, band.MaxYears))
	}

	if rolesConfig.OutputFile != "" {
		fp := common.NewFileProcessor(logger)
		return fp.WriteFile(rolesConfig.OutputFile, output.String())
	}
	fmt.Print(output.String())
	return nil
}
