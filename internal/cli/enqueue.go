package cli

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"resumelens/internal/common"
	"resumelens/internal/extract"
	"resumelens/internal/queue"
	"resumelens/internal/types"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [resume-file]",
	Short: "Queue a resume for analysis by a worker",
	Long: `Publish an analysis job to the configured queue and print its ID.

Pass --s3-key to queue a document stored in the bucket, or a local file to
send its extracted text with the job. Workers report progress on the status
exchange under analysis.<job-id>.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && enqueueOpts.s3Key == "" {
			return fmt.Errorf("provide a file or --s3-key")
		}
		if len(args) > 0 && enqueueOpts.s3Key != "" {
			return fmt.Errorf("a file and --s3-key cannot be combined")
		}
		return nil
	},
	RunE: runEnqueue,
}

var enqueueOpts struct {
	role     string
	category string
	s3Key    string
}

func init() {
	enqueueCmd.Flags().StringVarP(&enqueueOpts.role, "role", "r", "", "Target role")
	enqueueCmd.Flags().StringVar(&enqueueOpts.category, "category", "", "Role category")
	enqueueCmd.Flags().StringVar(&enqueueOpts.s3Key, "s3-key", "", "Object key in the configured bucket")
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := fromContext(ctx)
	if err != nil {
		return err
	}

	job := types.AnalysisJob{
		ID:        uuid.NewString(),
		ObjectKey: enqueueOpts.s3Key,
		Role:      enqueueOpts.role,
		Category:  enqueueOpts.category,
	}
	if enqueueOpts.s3Key != "" {
		job.FileName = filepath.Base(enqueueOpts.s3Key)
	} else {
		doc, err := common.NewFileProcessor(cfg.App.MaxFileSize, logger).ReadDocument(args[0])
		if err != nil {
			return err
		}
		// Jobs carry text, not binary documents.
		text, err := extract.New(extract.WithTimeout(cfg.Extraction.Timeout), extract.WithLogger(logger)).Extract(ctx, doc)
		if err != nil {
			return err
		}
		job.Text = text
		job.FileName = doc.FileName
	}

	client, err := queue.Dial(cfg.Queue.URL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.EnsureQueue(cfg.Queue.Name); err != nil {
		return err
	}
	if err := client.PublishJSON(ctx, "", cfg.Queue.Name, job); err != nil {
		return err
	}

	logger.Info("Analysis job queued", "job_id", job.ID, "queue", cfg.Queue.Name, "file_name", job.FileName)
	fmt.Fprintln(cmd.OutOrStdout(), job.ID)
	return nil
}
