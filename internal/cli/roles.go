package cli

import (
	"os"

	"github.com/spf13/cobra"

	"resumelens/internal/common"
	"resumelens/internal/roles"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the target roles and their required skills",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if rolesConfig.OutputFormat == "" {
			rolesConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(rolesConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := fromContext(cmd.Context())
		if err != nil {
			return err
		}
		registry, err := roles.NewRegistry(cfg.Roles.File, logger)
		if err != nil {
			return err
		}
		return common.NewOutputHandler(os.Stdout, logger).HandleOutput(registry.List(rolesCategory), rolesConfig)
	},
}

var (
	rolesConfig   common.CommandConfig
	rolesCategory string
)

func init() {
	rolesCmd.Flags().StringVar(&rolesCategory, "category", "", "Only list roles in this category")
	rolesCmd.Flags().StringVarP(&rolesConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rolesCmd.Flags().StringVar(&rolesConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}
