package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// Runner drains document sources through the upload client, one document at a time.
// A Runner owns its ledger for the duration of a pass; concurrent passes
// against the same ledger are not supported.
type Runner struct {
	uploader ports.UploadClient
	ledger   ports.FailureLedger
	limiter  ports.RateLimiter
	observer ports.ProgressObserver
	logger   ports.Logger
}

// NewRunner creates a new runner with the given dependencies.
// A nil observer discards progress updates.
func NewRunner(
	uploader ports.UploadClient,
	ledger ports.FailureLedger,
	limiter ports.RateLimiter,
	observer ports.ProgressObserver,
	logger ports.Logger,
) *Runner {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Runner{
		uploader: uploader,
		ledger:   ledger,
		limiter:  limiter,
		observer: observer,
		logger:   logger,
	}
}

// RunBatch performs one pass over source and returns the final tallies.
//
// The ledger is reset before the first attempt; every failed document is
// recorded before the next one is attempted. Upload failures never abort the
// pass. A ledger failure does, and so does ctx cancellation, which is honored
// between documents only.
func (r *Runner) RunBatch(ctx context.Context, source ports.DocumentSource) (domain.Progress, error) {
	if err := r.ledger.Reset(ctx); err != nil {
		r.logger.Error("failed to reset ledger", ports.Err(err))
		return domain.Progress{}, wrapLedgerErr("reset ledger", err)
	}

	progress := domain.NewProgress(source.Len())
	r.observer.OnStart(progress)
	r.logger.Info("batch started", ports.Int("total", progress.Total))

	start := time.Now()
	for _, doc := range source.Items() {
		if err := ctx.Err(); err != nil {
			return r.finish(progress, start, err)
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return r.finish(progress, start, err)
		}

		outcome := r.uploader.Submit(ctx, doc)
		r.limiter.Done()
		progress.Attempted++

		if outcome.OK() {
			progress.Succeeded++
			r.logger.Debug("document loaded",
				ports.String("document", doc.ID),
				ports.Int("succeeded", progress.Succeeded),
			)
		} else {
			r.logger.Warn("document failed",
				ports.String("document", doc.ID),
				ports.String("kind", outcome.Kind.String()),
				ports.String("reason", outcome.Message),
			)
			if err := r.ledger.Record(ctx, doc.ID, outcome.Message); err != nil {
				r.logger.Error("failed to record failure", ports.String("document", doc.ID), ports.Err(err))
				r.observer.OnProgress(progress, doc, outcome)
				return r.finish(progress, start, wrapLedgerErr("record failure", err))
			}
		}

		r.observer.OnProgress(progress, doc, outcome)
	}

	return r.finish(progress, start, nil)
}

// RunUntilClean repeats passes while the previous one left failures behind,
// at most maxPasses times. next builds the source of each pass and is called
// before the pass resets the ledger, so a ledger-backed source sees the
// failures of the previous pass.
func (r *Runner) RunUntilClean(
	ctx context.Context,
	next func() (ports.DocumentSource, error),
	maxPasses int,
) ([]domain.Progress, error) {
	var passes []domain.Progress
	for i := 0; i < maxPasses; i++ {
		source, err := next()
		if err != nil {
			return passes, fmt.Errorf("build source for pass %d: %w", i+1, err)
		}

		progress, err := r.RunBatch(ctx, source)
		passes = append(passes, progress)
		if err != nil {
			return passes, err
		}
		if progress.Complete() {
			break
		}
	}
	return passes, nil
}

func (r *Runner) finish(progress domain.Progress, start time.Time, err error) (domain.Progress, error) {
	r.observer.OnFinish(progress)

	fields := []ports.Field{
		ports.Int("attempted", progress.Attempted),
		ports.Int("succeeded", progress.Succeeded),
		ports.Int("total", progress.Total),
		ports.Duration("duration", time.Since(start)),
	}
	if err != nil {
		r.logger.Warn("batch stopped", append(fields, ports.Err(err))...)
		return progress, err
	}
	r.logger.Info("batch finished", fields...)
	return progress, nil
}

func wrapLedgerErr(op string, err error) error {
	if errors.Is(err, domain.ErrFatalLedger) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrFatalLedger, err)
}

type noopObserver struct{}

func (noopObserver) OnStart(domain.Progress)                                        {}
func (noopObserver) OnProgress(domain.Progress, domain.DocumentRef, domain.Outcome) {}
func (noopObserver) OnFinish(domain.Progress)                                       {}
