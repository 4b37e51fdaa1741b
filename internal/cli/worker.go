package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumelens/internal/errors"
	"resumelens/internal/queue"
	"resumelens/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis jobs from RabbitMQ",
	Long: `Start a pool of workers consuming analysis jobs from the configured queue.
Status updates (processing, completed, failed) are published to the topic
exchange with routing key analysis.<job-id>.`,
	RunE: runWorker,
}

var workerCount int

func init() {
	workerCmd.Flags().IntVarP(&workerCount, "workers", "w", 0, "Number of concurrent workers (default from config)")
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := fromContext(ctx)
	if err != nil {
		return err
	}
	if workerCount > 0 {
		cfg.Queue.Workers = workerCount
	}

	rt, err := newApp(ctx, cfg, logger, appOptions{store: true, cache: true, watchRoles: true, observability: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	client, err := queue.Dial(cfg.Queue.URL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.EnsureQueue(cfg.Queue.Name); err != nil {
		return err
	}
	if err := client.EnsureExchange(cfg.Queue.Exchange, "topic"); err != nil {
		return err
	}
	consumer, err := client.Consume(cfg.Queue.Name, cfg.Queue.Prefetch)
	if err != nil {
		return err
	}
	defer func() { _ = consumer.Close() }()

	pool := worker.New(rt.service, client, cfg.Queue.Exchange, cfg.Queue.Workers, rt.om.GetMetrics(), logger)
	logger.Info("Worker pool started",
		"queue", cfg.Queue.Name,
		"exchange", cfg.Queue.Exchange,
		"workers", cfg.Queue.Workers)

	// Stop the pool when the broker drops the connection.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	closed := client.NotifyClose()
	var connErr error
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case amqpErr, ok := <-closed:
			if ok && amqpErr != nil {
				connErr = errors.NewNetworkError(errors.ErrCodeQueueFailed, "queue connection closed", amqpErr)
			}
			cancel()
		case <-runCtx.Done():
		}
	}()

	pool.Run(runCtx, consumer.Deliveries())
	cancel()
	<-watchDone

	if connErr != nil {
		return connErr
	}
	if ctx.Err() == nil {
		return fmt.Errorf("delivery channel closed unexpectedly")
	}
	logger.Info("Worker pool stopped")
	return nil
}
