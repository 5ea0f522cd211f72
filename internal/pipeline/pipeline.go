package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkgdoc/manbook/internal/book"
	"github.com/pkgdoc/manbook/internal/log"
	"github.com/pkgdoc/manbook/internal/man"
	"github.com/pkgdoc/manbook/internal/model"
)

// ErrNoPackages is returned when the package listing is empty. It is a
// no-op outcome, not a failure: the caller prints a diagnostic and exits
// without producing a document.
var ErrNoPackages = errors.New("no packages found")

// Defaults applied when options are not provided.
const (
	defaultBatchSize    = 50
	defaultQueueTimeout = 1 * time.Second
)

// Lister enumerates candidate package names.
type Lister interface {
	// ListPackages returns all package names, sorted and deduplicated.
	ListPackages(ctx context.Context) ([]string, error)
}

// Locator returns the documentation pages owned by a package, possibly
// empty. It never fails; an empty result means "fall back to a bare-name
// lookup".
type Locator interface {
	Locate(ctx context.Context, pkg string) []model.PageRef
}

// Fetcher renders one page to plain text. Absence is signaled with
// man.ErrPageNotFound and is not an error of the run.
type Fetcher interface {
	Fetch(ctx context.Context, ref model.PageRef) (string, error)
}

// FormatFunc turns raw rendered text into document blocks.
type FormatFunc func(raw string) []model.Block

// Runner drives one harvest run: a worker pool per batch feeding a single
// aggregator that owns the document sink and the run statistics.
type Runner struct {
	lister  Lister
	locator Locator
	fetcher Fetcher
	sink    book.Sink

	// format converts raw page text to blocks. Defaults to man.Format.
	format FormatFunc

	// batchSize bounds concurrently live workers and OS subprocesses.
	batchSize int

	// queueTimeout is how long the aggregator waits on the queue before
	// re-checking worker liveness.
	queueTimeout time.Duration

	// trace is the best-effort sidecar record of progress.
	trace *log.Sidecar

	// logger is used for structured logging.
	logger *slog.Logger

	// mu guards stats, the run's single critical section. Only the
	// aggregator mutates stats; the mutex also covers the final read.
	mu    sync.Mutex
	stats model.RunStats
}

// Option configures a Runner.
type Option func(*Runner)

// WithBatchSize sets how many packages are processed concurrently before
// the next batch starts.
func WithBatchSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithQueueTimeout sets the aggregator's queue pop timeout.
func WithQueueTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.queueTimeout = d
		}
	}
}

// WithFormatter substitutes the text formatter.
func WithFormatter(format FormatFunc) Option {
	return func(r *Runner) {
		r.format = format
	}
}

// WithSidecar sets the progress trace sidecar.
func WithSidecar(trace *log.Sidecar) Option {
	return func(r *Runner) {
		r.trace = trace
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner over the given collaborators.
func New(lister Lister, locator Locator, fetcher Fetcher, sink book.Sink, opts ...Option) *Runner {
	r := &Runner{
		lister:       lister,
		locator:      locator,
		fetcher:      fetcher,
		sink:         sink,
		format:       man.Format,
		batchSize:    defaultBatchSize,
		queueTimeout: defaultQueueTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.trace == nil {
		r.trace = &log.Sidecar{}
	}
	return r
}

// Run executes one harvest: listing, batched dispatch and drain, then
// document finalization. The returned stats are complete even when the
// run ends in an error.
//
// Packages appear in the document in arrival order, not input order; this
// is accepted non-determinism across runs. Listing failure and document
// finalization failure are the only fatal errors; everything per-package
// is folded into the stats.
func (r *Runner) Run(ctx context.Context) (model.RunStats, error) {
	names, err := r.lister.ListPackages(ctx)
	if err != nil {
		return r.snapshot(), fmt.Errorf("list packages: %w", err)
	}
	if len(names) == 0 {
		return r.snapshot(), ErrNoPackages
	}

	batches := chunk(names, r.batchSize)
	r.logger.Info("dispatching harvest",
		"packages", len(names),
		"batches", len(batches),
		"batchSize", r.batchSize,
	)

	for i, batch := range batches {
		if ctx.Err() != nil {
			break
		}
		r.logger.Debug("processing batch",
			"batch", i+1,
			"total", len(batches),
			"size", len(batch),
		)
		r.runBatch(ctx, batch)
	}

	if err := ctx.Err(); err != nil {
		return r.snapshot(), err
	}

	if err := r.sink.Finalize(); err != nil {
		return r.snapshot(), fmt.Errorf("finalize document: %w", err)
	}
	return r.snapshot(), nil
}

// runBatch starts one worker per package and drains their results.
// The queue is buffered to the batch size, so workers never block on a
// slow aggregator.
func (r *Runner) runBatch(ctx context.Context, batch []string) {
	results := make(chan model.FetchResult, len(batch))
	workersDone := make(chan struct{})

	g := new(errgroup.Group)
	for _, pkg := range batch {
		pkg := pkg
		g.Go(func() error {
			results <- r.harvest(ctx, pkg)
			return nil
		})
	}
	go func() {
		_ = g.Wait() //nolint:errcheck // Workers fold errors into their result
		close(workersDone)
	}()

	r.drain(ctx, results, workersDone, len(batch))
}

// harvest is the worker body: locate the package's pages, fetch each one
// (or the bare name when none were located), and return exactly one
// result. Unexpected failures, including panics, are caught at this
// boundary and folded into the result.
func (r *Runner) harvest(ctx context.Context, pkg string) (res model.FetchResult) {
	res = model.NewFetchResult(pkg)
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("worker panic: %v", p)
		}
	}()

	refs := r.locator.Locate(ctx, pkg)
	if len(refs) == 0 {
		refs = []model.PageRef{model.NewBareRef(pkg)}
	}

	for _, ref := range refs {
		text, err := r.fetcher.Fetch(ctx, ref)
		if err != nil {
			if errors.Is(err, man.ErrPageNotFound) {
				// Absence is a common outcome, not a failure.
				continue
			}
			if res.Err == nil {
				res.Err = err
			}
			continue
		}
		if _, dup := res.Pages[ref.Display()]; dup {
			continue
		}
		res.Pages[ref.Display()] = text
	}
	return res
}

// drain is the aggregator loop for one batch. It pops with a timeout and
// stops once it has consumed as many results as the batch has workers, or
// once all workers have terminated and the queue is empty. A timeout
// expiry alone only triggers the liveness re-check; it is never terminal.
func (r *Runner) drain(ctx context.Context, results <-chan model.FetchResult, workersDone <-chan struct{}, want int) {
	timer := time.NewTimer(r.queueTimeout)
	defer timer.Stop()

	for drained := 0; drained < want; {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(r.queueTimeout)

		select {
		case res := <-results:
			r.consume(res)
			drained++
		case <-ctx.Done():
			return
		case <-timer.C:
			select {
			case <-workersDone:
				// All workers exited; whatever is buffered is all there
				// will ever be.
				for {
					select {
					case res := <-results:
						r.consume(res)
						drained++
					default:
						return
					}
				}
			default:
				// Workers still alive; keep waiting.
			}
		}
	}
}

// consume formats and writes one package's pages and updates the run
// statistics. This is the only code path that touches the sink or the
// stats.
func (r *Runner) consume(res model.FetchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Processed++

	if res.Err != nil {
		r.stats.Failures = append(r.stats.Failures, model.Failure{
			Package: res.Package,
			Message: res.Err.Error(),
		})
		r.logger.Warn("package failed",
			"package", res.Package,
			"error", res.Err,
		)
	}

	if !res.HasDocs() {
		r.trace.Record("package %s: no documentation", res.Package)
		return
	}

	r.stats.PackagesWithDocs++
	for _, name := range res.SortedPageNames() {
		r.sink.AddPage()
		r.sink.WriteTitle(res.Package + ": " + name)
		for _, b := range r.format(res.Pages[name]) {
			if b.Kind == model.SectionHeader {
				r.sink.WriteTitle(b.Text)
			} else {
				r.sink.WriteBody(b.Text)
			}
		}
		r.stats.TotalPages++
		r.trace.Record("package %s: wrote page %s", res.Package, name)
	}
}

// snapshot returns a copy of the stats under the mutex.
func (r *Runner) snapshot() model.RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
