// Package worker runs the fixed-size pool of goroutines that turn queued
// events into executed jobs.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shev/internal/dispatch"
	"shev/internal/execshell"
	"shev/internal/logging"
	"shev/internal/registry"
	"shev/internal/shevcore"
	"shev/internal/store"
)

// HandlerLookup resolves an event type to its bound Handler. Implemented
// by internal/reload's read-mostly snapshot table.
type HandlerLookup interface {
	Lookup(eventType string) (shevcore.Handler, bool)
}

// Pool is a fixed-size set of workers consuming a Dispatcher's queue.
type Pool struct {
	dispatcher *dispatch.Dispatcher
	store      store.JobStore
	handlers   HandlerLookup
	registry   *registry.Registry
	executor   *execshell.Executor
	logger     *slog.Logger
	count      int

	wg sync.WaitGroup
}

// New creates a Pool of count workers.
func New(d *dispatch.Dispatcher, s store.JobStore, handlers HandlerLookup, reg *registry.Registry, exec *execshell.Executor, logger *slog.Logger, count int) *Pool {
	if count <= 0 {
		count = 1
	}
	return &Pool{
		dispatcher: d,
		store:      s,
		handlers:   handlers,
		registry:   reg,
		executor:   exec,
		logger:     logger,
		count:      count,
	}
}

// Run starts count worker goroutines. It returns immediately; call Wait
// to block until they've all drained after ctx is cancelled.
func (p *Pool) Run(ctx context.Context) {
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx)
	}
}

// Wait blocks until every worker goroutine has returned. A slow handler
// does not block unrelated handlers except by consuming a worker slot;
// callers cancel ctx and then call Wait to drain in-flight jobs.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Shutdown waits up to grace for in-flight workers to drain after the
// pool's ctx has been cancelled, then returns regardless of whether they
// finished. Workers left running past grace are abandoned; their jobs
// are picked up as orphans on the next restart.
func (p *Pool) Shutdown(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
	}
}

func (p *Pool) runWorker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-p.dispatcher.Items():
			if !ok {
				return
			}
			p.process(ctx, item)
		}
	}
}

var tracer = otel.Tracer("shev/worker")

func (p *Pool) process(ctx context.Context, item dispatch.Item) {
	event := item.Event

	handler, found := p.handlers.Lookup(event.EventType)
	if !found {
		p.logger.Warn("no handler for event type, dropping", "event_type", event.EventType, "event_id", event.ID)
		return
	}

	// storeCtx is detached from ctx so job-state writes still land after
	// shutdown cancels ctx; execution itself still observes ctx's
	// cancellation via execCtx below.
	storeCtx := context.WithoutCancel(ctx)

	job := shevcore.Job{
		ID:        uuid.New(),
		Event:     event,
		HandlerID: handler.ID,
		Status:    shevcore.JobPending,
	}
	if err := p.store.CreateJob(storeCtx, &job); err != nil {
		p.logger.Error("failed to create job row", "error", err, "event_id", event.ID)
		return
	}

	spanCtx, span := tracer.Start(ctx, "process_job",
		trace.WithAttributes(
			attribute.String("job.id", job.ID.String()),
			attribute.String("event.type", event.EventType),
		),
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
	defer span.End()

	logger := logging.FromContext(logging.WithJobID(spanCtx, job.ID.String()), p.logger)

	var execCtx context.Context
	var cancel context.CancelFunc
	if handler.TimeoutSecs != nil {
		execCtx, cancel = context.WithTimeout(spanCtx, time.Duration(*handler.TimeoutSecs)*time.Second)
	} else {
		execCtx, cancel = context.WithCancel(spanCtx)
	}
	defer cancel()

	if preCancelled := p.registry.Register(job.ID, cancel); preCancelled {
		if err := p.store.CancelPending(storeCtx, job.ID, "cancelled by user", time.Now().UTC()); err != nil {
			logger.Error("failed to write terminal job state", "error", err)
		}
		return
	}
	defer p.registry.Unregister(job.ID)

	now := time.Now().UTC()
	if err := p.store.MarkRunning(storeCtx, job.ID, now); err != nil {
		logger.Error("failed to mark job running", "error", err)
		return
	}

	result := p.executor.Execute(execCtx, handler, event.Context)
	span.SetAttributes(attribute.String("job.status", string(result.Status)))
	logger.Info("job finished", "status", result.Status)

	p.finish(storeCtx, job.ID, result.Status, result.Output, result.Error, logger)
}

func (p *Pool) finish(ctx context.Context, jobID uuid.UUID, status shevcore.JobStatus, output, errMsg *string, logger *slog.Logger) {
	if err := p.store.FinishJob(ctx, jobID, status, output, errMsg, time.Now().UTC()); err != nil {
		logger.Error("failed to write terminal job state", "error", err)
	}
}
