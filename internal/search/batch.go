package search

import (
	"context"
	"time"

	"github.com/nao1215/srcpgear/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the result of one request in a batch.
type BatchResult struct {
	// Index is the position of the request in the batch.
	Index   int
	Request model.SearchRequest
	Outcome *Outcome
	Err     error
}

// Batch runs many requests concurrently, at most e.workers at a time, and
// calls callback as each one finishes. Each request is searched on a single
// goroutine so the batch as a whole stays within the worker limit.
//
// Per-request failures are passed to the callback and do not stop the other
// requests. The callback is called from worker goroutines and must be safe
// for concurrent use. The returned error is non-nil only on cancellation.
func (e *Engine) Batch(ctx context.Context, reqs []model.SearchRequest, callback func(BatchResult)) error {
	e.logger.Info("starting batch search",
		"total_targets", len(reqs),
		"concurrency", e.workers,
	)
	startTime := time.Now()

	single := *e
	single.workers = 1

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, req := range reqs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			out, err := single.Run(ctx, req)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				e.logger.Warn("search failed",
					"target_ratio", req.TargetRatio,
					"error", err,
				)
			}
			callback(BatchResult{Index: i, Request: req, Outcome: out, Err: err})
			return nil
		})
	}

	err := g.Wait()
	e.logger.Info("batch search complete",
		"total_targets", len(reqs),
		"elapsed", time.Since(startTime),
	)
	return err
}
