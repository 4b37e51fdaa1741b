package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"resumelens/internal/common"
	"resumelens/internal/formatters"
	"resumelens/internal/service"
	"resumelens/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file...]",
	Short: "Score one or more resumes for ATS compatibility",
	Long: `Analyze PDF, DOCX or plain text resumes. Each file is classified, split
into sections, matched against the skills of the target role and scored.

Use --role (and optionally --category) to pick the target role from the
catalog; without a role, keyword coverage is not scored. Use --s3-key instead
of files to analyze a document from the configured bucket.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		if err := common.ValidateAnalyzeInputs(args, analyzeOpts.s3Key); err != nil {
			return err
		}
		if err := common.ValidateConcurrency(analyzeOpts.concurrency); err != nil {
			return err
		}
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

var analyzeOpts struct {
	role        string
	category    string
	s3Key       string
	concurrency int
	save        bool
}

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	flags.StringVarP(&analyzeOpts.role, "role", "r", "", "Target role, e.g. \"Backend Developer\"")
	flags.StringVar(&analyzeOpts.category, "category", "", "Role category, to disambiguate --role")
	flags.StringVar(&analyzeOpts.s3Key, "s3-key", "", "Analyze this object from the configured S3 bucket")
	flags.IntVarP(&analyzeOpts.concurrency, "concurrency", "c", 4, "Files analyzed at once")
	flags.BoolVar(&analyzeOpts.save, "save", false, "Persist results in the configured store")

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		if len(cfg.App.SupportedFormats) == 0 {
			return formatters.GlobalRegistry.GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := fromContext(ctx)
	if err != nil {
		return err
	}

	rt, err := newApp(ctx, cfg, logger, appOptions{store: analyzeOpts.save, cache: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	// Resolve the role once so a typo fails before any file is read.
	if _, err := rt.service.ResolveRole(analyzeOpts.category, analyzeOpts.role); err != nil {
		return err
	}

	base := service.Input{
		Role:     analyzeOpts.role,
		Category: analyzeOpts.category,
		Persist:  analyzeOpts.save,
	}

	logger.Info("Starting resume analysis",
		"files", len(args),
		"s3_key", analyzeOpts.s3Key,
		"role", analyzeOpts.role,
		"output_format", analyzeConfig.OutputFormat)

	var output any
	if analyzeOpts.s3Key != "" {
		in := base
		in.ObjectKey = analyzeOpts.s3Key
		if output, err = rt.service.Analyze(ctx, in); err != nil {
			return err
		}
	} else {
		records, err := analyzeFiles(ctx, rt.service, common.NewFileProcessor(cfg.App.MaxFileSize, logger), args, base)
		if err != nil {
			return err
		}
		output = records
		if len(records) == 1 {
			output = records[0]
		}
	}

	if err := common.NewOutputHandler(os.Stdout, logger).HandleOutput(output, analyzeConfig); err != nil {
		return err
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}

// analyzeFiles reads and analyzes files concurrently, keeping their order.
// The first failure cancels the rest.
func analyzeFiles(ctx context.Context, svc *service.Service, fp *common.FileProcessor, files []string, base service.Input) ([]*types.AnalysisRecord, error) {
	return common.RunBatch(ctx, files, analyzeOpts.concurrency, func(ctx context.Context, file string) (*types.AnalysisRecord, error) {
		doc, err := fp.ReadDocument(file)
		if err != nil {
			return nil, err
		}
		in := base
		in.Document = &doc
		in.FileName = doc.FileName
		return svc.Analyze(ctx, in)
	})
}
