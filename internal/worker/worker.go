// Package worker consumes queued analysis jobs and publishes their status.
package worker

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"resumelens/internal/errors"
	"resumelens/internal/observability"
	"resumelens/internal/queue"
	"resumelens/internal/service"
	"resumelens/internal/types"
)

// Analyzer is the part of service.Service the pool uses.
type Analyzer interface {
	Analyze(ctx context.Context, in service.Input) (*types.AnalysisRecord, error)
}

// Pool runs a fixed number of consumers over one deliveries channel.
type Pool struct {
	analyzer  Analyzer
	publisher queue.Publisher
	exchange  string
	workers   int
	metrics   *observability.Metrics
	logger    *errors.Logger
}

// New returns a pool of n workers publishing updates to exchange.
func New(a Analyzer, pub queue.Publisher, exchange string, n int, metrics *observability.Metrics, logger *errors.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{
		analyzer:  a,
		publisher: pub,
		exchange:  exchange,
		workers:   n,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run blocks until deliveries is closed or ctx is done, and then waits for
// in-flight jobs.
func (p *Pool) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := range p.workers {
		go func(id int) {
			defer wg.Done()
			p.logger.Debug("Worker started", "worker_id", id)
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					p.handle(ctx, id, d)
				}
			}
		}(i + 1)
	}
	wg.Wait()
}

func (p *Pool) handle(ctx context.Context, workerID int, d amqp.Delivery) {
	job, err := decodeJob(d.Body)
	if err != nil {
		p.logger.LogError(err, "Dropping malformed job", "worker_id", workerID)
		p.settle(d, false, false)
		if job.ID != "" {
			p.publish(ctx, types.JobUpdate{JobID: job.ID, Status: types.JobFailed, Error: err.Error()})
		}
		p.metrics.RecordJob(ctx, "malformed")
		return
	}

	logger := p.logger.With("job_id", job.ID, "worker_id", workerID)
	logger.Info("Processing job", "role", job.Role, "object_key", job.ObjectKey, "redelivered", d.Redelivered)
	p.publish(ctx, types.JobUpdate{JobID: job.ID, Status: types.JobProcessing})

	record, err := p.analyzer.Analyze(ctx, service.Input{
		ObjectKey: job.ObjectKey,
		MIMEType:  job.MIMEType,
		Text:      job.Text,
		FileName:  job.FileName,
		Role:      job.Role,
		Category:  job.Category,
		Persist:   true,
	})
	if err != nil && ctx.Err() != nil {
		// Shutting down; the job itself did not fail.
		p.settle(d, false, true)
		logger.Info("Job interrupted by shutdown, requeued")
		p.metrics.RecordJob(ctx, "requeued")
		return
	}
	if err != nil {
		requeue := !permanent(err) && !d.Redelivered
		p.settle(d, false, requeue)
		if requeue {
			logger.LogError(err, "Job failed, requeued")
			p.metrics.RecordJob(ctx, "requeued")
			return
		}
		logger.LogError(err, "Job failed")
		p.publish(ctx, types.JobUpdate{JobID: job.ID, Status: types.JobFailed, Error: err.Error()})
		p.metrics.RecordJob(ctx, string(types.JobFailed))
		return
	}

	p.settle(d, true, false)
	p.publish(ctx, types.JobUpdate{
		JobID:    job.ID,
		Status:   types.JobCompleted,
		RecordID: record.ID.String(),
		ATSScore: record.Result.ATSScore,
		Record:   record,
	})
	p.metrics.RecordJob(ctx, string(types.JobCompleted))
	logger.Info("Job completed", "record_id", record.ID.String(), "ats_score", record.Result.ATSScore)
}

// decodeJob returns whatever it could decode alongside the error so a failure
// can still be reported against the job ID.
func decodeJob(body []byte) (types.AnalysisJob, error) {
	var job types.AnalysisJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, errors.NewValidationError(errors.ErrCodeInvalidFormat, "job is not valid JSON", err)
	}
	job.ID = strings.TrimSpace(job.ID)
	switch {
	case job.ID == "":
		return job, errors.NewValidationError(errors.ErrCodeInvalidRequest, "job id is required", nil)
	case job.ObjectKey == "" && strings.TrimSpace(job.Text) == "":
		return job, errors.NewValidationError(errors.ErrCodeInvalidRequest, "job needs an objectKey or text", nil)
	}
	return job, nil
}

// permanent errors fail the same way on every attempt.
func permanent(err error) bool {
	return errors.IsExtraction(err) ||
		errors.Is(err, errors.ErrorTypeValidation) ||
		errors.Is(err, errors.ErrorTypeConfig) ||
		errors.HasCode(err, errors.ErrCodeRoleNotFound) ||
		errors.HasCode(err, errors.ErrCodeFileNotFound)
}

func (p *Pool) settle(d amqp.Delivery, ack, requeue bool) {
	var err error
	if ack {
		err = d.Ack(false)
	} else {
		err = d.Nack(false, requeue)
	}
	if err != nil {
		p.logger.LogError(err, "Failed to settle delivery", "ack", ack, "requeue", requeue)
	}
}

// publish is best effort; a lost status update does not fail the job.
func (p *Pool) publish(ctx context.Context, update types.JobUpdate) {
	if p.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.publisher.PublishJSON(pubCtx, p.exchange, queue.UpdateRoutingKey(update.JobID), update); err != nil {
		p.logger.LogError(err, "Failed to publish job update", "job_id", update.JobID, "status", update.Status)
	}
}
