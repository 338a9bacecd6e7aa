package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/blobstore"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/parser"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/sink"
)

// Deps are the collaborators a Worker talks to. Provider may be nil when
// every job carries its own file data.
type Deps struct {
	Provider blobstore.Provider
	Writer   sink.Writer
	Oracle   sink.Oracle
	Stats    *Stats
}

// Worker processes a single file job.
type Worker struct {
	deps    Deps
	opts    TransformOptions
	log     *slog.Logger
	backoff func(attempt int) time.Duration
	locks   *filenameLocks
}

func NewWorker(deps Deps, opts TransformOptions, log *slog.Logger) *Worker {
	return &Worker{
		deps:    deps,
		opts:    opts,
		log:     log,
		backoff: Backoff,
		locks:   newFilenameLocks(),
	}
}

// Process runs the full ingest pipeline for a job. Jobs for the same
// filename run one at a time, from the duplicate check through the write.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "run_id", job.RunID, "filename", job.Filename)

	release, err := w.locks.acquire(ctx, job.Filename)
	if err != nil {
		log.Warn("abandoned while waiting for same-file job", "error", err)
		job.AddError(fmt.Sprintf("waiting for %s: %s", job.Filename, err))
		job.SetStatus(StatusFailed, "queued")
		return
	}
	defer release()

	start := time.Now()

	var rows, skipped int
	defer func() {
		if w.deps.Stats != nil {
			w.deps.Stats.Record(job.CurrentStatus(), time.Since(start), rows, skipped)
		}
	}()

	// Phase 1: duplicate-filename check
	if !job.Force && w.deps.Oracle != nil {
		job.SetStatus(StatusChecking, "dedup")
		seen, err := withRetry(ctx, w, log, "dedup check", func() (bool, error) {
			return w.deps.Oracle.Seen(ctx, job.Filename)
		})
		if err != nil {
			log.Error("dedup check failed", "error", err)
			job.AddError(fmt.Sprintf("dedup: %s", err))
			job.SetStatus(StatusFailed, "dedup")
			return
		}
		if seen {
			log.Info("file already processed, skipping")
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: fetch
	data := job.FileData()
	if data == nil {
		job.SetStatus(StatusFetching, "fetching")
		if w.deps.Provider == nil {
			job.AddError("no content provider configured")
			job.SetStatus(StatusFailed, "fetching")
			return
		}
		var err error
		data, err = withRetry(ctx, w, log, "fetch", func() ([]byte, error) {
			return w.deps.Provider.Fetch(ctx, job.Bucket, job.Filename)
		})
		if err != nil {
			log.Error("fetch failed", "bucket", job.Bucket, "error", err)
			job.AddError(fmt.Sprintf("fetch: %s", err))
			job.SetStatus(StatusFailed, "fetching")
			return
		}
	}
	job.releaseData()
	job.mu.Lock()
	job.ContentHash = ContentHashHex(data)
	job.mu.Unlock()
	log.Info("file loaded", "bytes", len(data))

	// Phase 3: parse and project
	job.SetStatus(StatusParsing, "parsing")
	out := Transform(string(data), job.Filename, w.opts)
	job.SetOutcome(out)
	skipped = out.Result.Skipped()
	logDiagnostics(log, out.Result.Diagnostics)
	log.Info("parsing complete",
		"segments", out.Segments,
		"segments_skipped", skipped,
		"rows", out.Tables.Total(),
	)
	for _, t := range projector.AllTables {
		log.Debug("rows ready", "table", t, "rows", len(out.Tables.Rows(t)))
	}

	if out.Tables.Total() == 0 {
		log.Warn("no rows produced")
		job.SetStatus(finalStatus(skipped), "empty")
		return
	}

	// Phase 4: store
	job.SetStatus(StatusStoring, "storing")
	res, err := withRetry(ctx, w, log, "write", func() (sink.WriteResult, error) {
		return w.deps.Writer.Write(ctx, job.RunID, out.Tables)
	})
	if err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	job.SetStored(res)
	rows = res.Total()
	if r, ok := w.deps.Oracle.(interface{ Remember(string) }); ok {
		r.Remember(job.Filename)
	}
	log.Info("storage complete", "stored", rows, "duplicates", res.Duplicates)

	job.SetStatus(finalStatus(skipped), "done")
}

// finalStatus marks runs that self-healed segments as partial.
func finalStatus(skipped int) JobStatus {
	if skipped > 0 {
		return StatusPartial
	}
	return StatusCompleted
}

func logDiagnostics(log *slog.Logger, diags []parser.Diagnostic) {
	for _, d := range diags {
		log.Warn("self-healed segment",
			"kind", d.Kind,
			"index", d.Index,
			"tag", d.Tag,
			"segment", d.Segment,
			"reason", d.Reason,
		)
	}
}

// withRetry runs fn up to MaxRetries times while it fails with a retryable
// error.
func withRetry[T any](ctx context.Context, w *Worker, log *slog.Logger, op string, fn func() (T, error)) (T, error) {
	var (
		v       T
		lastErr error
	)
	for attempt := range MaxRetries {
		v, lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return v, lastErr
		}
		if attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable error", "op", op, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return v, errors.Join(lastErr, ctx.Err())
		}
	}
	return v, lastErr
}
