package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkgdoc/manbook/internal/man"
	"github.com/pkgdoc/manbook/internal/model"
)

// fakeLocator maps package names to located refs.
type fakeLocator map[string][]model.PageRef

// Locate implements Locator.
func (f fakeLocator) Locate(_ context.Context, pkg string) []model.PageRef {
	return f[pkg]
}

// panicLocator panics for one package to exercise the worker boundary.
type panicLocator struct {
	target string
	inner  fakeLocator
}

// Locate implements Locator.
func (p panicLocator) Locate(ctx context.Context, pkg string) []model.PageRef {
	if pkg == p.target {
		panic("locator blew up")
	}
	return p.inner.Locate(ctx, pkg)
}

// fakeFetcher resolves renderer targets to text or errors.
type fakeFetcher struct {
	texts map[string]string
	errs  map[string]error
	delay time.Duration
}

// Fetch implements Fetcher.
func (f *fakeFetcher) Fetch(_ context.Context, ref model.PageRef) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.errs[ref.Target()]; ok {
		return "", err
	}
	if text, ok := f.texts[ref.Target()]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: %s", man.ErrPageNotFound, ref.Display())
}

// recordingSink captures sink calls. The pipeline drives it from a single
// goroutine, so no locking is needed.
type recordingSink struct {
	pages       int
	titles      []string
	bodies      []string
	finalized   bool
	finalizeErr error
}

func (s *recordingSink) AddPage()               { s.pages++ }
func (s *recordingSink) WriteTitle(text string) { s.titles = append(s.titles, text) }
func (s *recordingSink) WriteBody(text string)  { s.bodies = append(s.bodies, text) }
func (s *recordingSink) Finalize() error {
	s.finalized = true
	return s.finalizeErr
}

// pageTitles returns the titles that start a page section (pkg: page).
func (s *recordingSink) pageTitles() []string {
	var titles []string
	for _, title := range s.titles {
		if strings.Contains(title, ": ") {
			titles = append(titles, title)
		}
	}
	return titles
}

// newTestRunner builds a Runner over fakes with fast timeouts.
func newTestRunner(lister Lister, locator Locator, fetcher Fetcher, sink *recordingSink, opts ...Option) *Runner {
	base := []Option{WithQueueTimeout(50 * time.Millisecond)}
	return New(lister, locator, fetcher, sink, append(base, opts...)...)
}

// TestRunnerRun tests the full harvest flow over fakes.
func TestRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("mixed listing counts docs and absence", func(t *testing.T) {
		t.Parallel()

		// bash has two located pages, curl one, doesnotexist123 none and
		// its bare-name fetch also misses. Absence is not a failure.
		locator := fakeLocator{
			"bash": {
				model.NewPageRef("/usr/share/man/man1/bash.1"),
				model.NewPageRef("/usr/share/man/man1/bashbug.1"),
			},
			"curl": {
				model.NewPageRef("/usr/share/man/man1/curl.1"),
			},
		}
		fetcher := &fakeFetcher{texts: map[string]string{
			"/usr/share/man/man1/bash.1":    "NAME\n\nbash - GNU Bourne-Again SHell\n",
			"/usr/share/man/man1/bashbug.1": "NAME\n\nbashbug - report a bug\n",
			"/usr/share/man/man1/curl.1":    "NAME\n\ncurl - transfer a URL\n",
		}}
		sink := &recordingSink{}

		r := newTestRunner(StaticLister{"bash", "doesnotexist123", "curl"}, locator, fetcher, sink)
		stats, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if stats.Processed != 3 {
			t.Errorf("Processed = %d, want 3", stats.Processed)
		}
		if stats.PackagesWithDocs != 2 {
			t.Errorf("PackagesWithDocs = %d, want 2", stats.PackagesWithDocs)
		}
		if stats.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", stats.TotalPages)
		}
		if len(stats.Failures) != 0 {
			t.Errorf("Failures = %v, want none", stats.Failures)
		}
		if sink.pages != 3 {
			t.Errorf("sink pages = %d, want 3", sink.pages)
		}
		if !sink.finalized {
			t.Error("sink was not finalized")
		}
	})

	t.Run("each non-empty page is written exactly once", func(t *testing.T) {
		t.Parallel()

		locator := fakeLocator{
			"bash": {
				model.NewPageRef("/m/man1/bash.1"),
				model.NewPageRef("/m/man1/bashbug.1"),
			},
		}
		fetcher := &fakeFetcher{texts: map[string]string{
			"/m/man1/bash.1":    "a\n",
			"/m/man1/bashbug.1": "b\n",
		}}
		sink := &recordingSink{}

		r := newTestRunner(StaticLister{"bash"}, locator, fetcher, sink)
		if _, err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		want := []string{"bash: bash.1", "bash: bashbug.1"}
		got := sink.pageTitles()
		if len(got) != len(want) {
			t.Fatalf("page titles = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("page title %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("one fetch failure does not stop the batch", func(t *testing.T) {
		t.Parallel()

		locator := fakeLocator{
			"bad":  {model.NewPageRef("/m/man1/bad.1")},
			"good": {model.NewPageRef("/m/man1/good.1")},
		}
		fetcher := &fakeFetcher{
			texts: map[string]string{"/m/man1/good.1": "good page\n"},
			errs:  map[string]error{"/m/man1/bad.1": errors.New("renderer wedged")},
		}
		sink := &recordingSink{}

		r := newTestRunner(StaticLister{"bad", "good", "missing"}, locator, fetcher, sink)
		stats, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if stats.Processed != 3 {
			t.Errorf("Processed = %d, want 3", stats.Processed)
		}
		if stats.PackagesWithDocs != 1 {
			t.Errorf("PackagesWithDocs = %d, want 1", stats.PackagesWithDocs)
		}
		if len(stats.Failures) != 1 || stats.Failures[0].Package != "bad" {
			t.Errorf("Failures = %v, want single entry for bad", stats.Failures)
		}
		if sink.pages != 1 {
			t.Errorf("sink pages = %d, want 1", sink.pages)
		}
	})

	t.Run("processed equals input count when everything fails", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{}
		sink := &recordingSink{}

		r := newTestRunner(StaticLister{"a", "b", "c", "d"}, fakeLocator{}, fetcher, sink)
		stats, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if stats.Processed != 4 {
			t.Errorf("Processed = %d, want 4", stats.Processed)
		}
		if stats.PackagesWithDocs != 0 || stats.TotalPages != 0 {
			t.Errorf("stats = %+v, want zero docs", stats)
		}
		if len(stats.Failures) != 0 {
			t.Errorf("Failures = %v, absence must not be recorded", stats.Failures)
		}
	})

	t.Run("worker panic is folded into failures", func(t *testing.T) {
		t.Parallel()

		locator := panicLocator{
			target: "cursed",
			inner:  fakeLocator{"fine": {model.NewPageRef("/m/man1/fine.1")}},
		}
		fetcher := &fakeFetcher{texts: map[string]string{"/m/man1/fine.1": "ok\n"}}
		sink := &recordingSink{}

		r := newTestRunner(StaticLister{"cursed", "fine"}, locator, fetcher, sink)
		stats, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if stats.Processed != 2 {
			t.Errorf("Processed = %d, want 2", stats.Processed)
		}
		if len(stats.Failures) != 1 || stats.Failures[0].Package != "cursed" {
			t.Errorf("Failures = %v, want single entry for cursed", stats.Failures)
		}
		if !strings.Contains(stats.Failures[0].Message, "panic") {
			t.Errorf("failure message = %q, want panic note", stats.Failures[0].Message)
		}
		if stats.PackagesWithDocs != 1 {
			t.Errorf("PackagesWithDocs = %d, want 1", stats.PackagesWithDocs)
		}
	})

	t.Run("small batches cover the whole listing", func(t *testing.T) {
		t.Parallel()

		names := make([]string, 17)
		texts := make(map[string]string, len(names))
		locator := fakeLocator{}
		for i := range names {
			names[i] = fmt.Sprintf("pkg%02d", i)
			path := fmt.Sprintf("/m/man1/pkg%02d.1", i)
			locator[names[i]] = []model.PageRef{model.NewPageRef(path)}
			texts[path] = "text\n"
		}
		sink := &recordingSink{}

		r := newTestRunner(StaticLister(names), locator, &fakeFetcher{texts: texts, delay: time.Millisecond}, sink,
			WithBatchSize(4),
		)
		stats, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if stats.Processed != 17 {
			t.Errorf("Processed = %d, want 17", stats.Processed)
		}
		if stats.TotalPages != 17 {
			t.Errorf("TotalPages = %d, want 17", stats.TotalPages)
		}
		if sink.pages != 17 {
			t.Errorf("sink pages = %d, want 17", sink.pages)
		}
	})

	t.Run("empty listing returns ErrNoPackages without a document", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		r := newTestRunner(StaticLister{}, fakeLocator{}, &fakeFetcher{}, sink)

		_, err := r.Run(context.Background())
		if !errors.Is(err, ErrNoPackages) {
			t.Errorf("Run() error = %v, want ErrNoPackages", err)
		}
		if sink.finalized {
			t.Error("sink must not be finalized for an empty listing")
		}
	})

	t.Run("listing failure aborts before any work", func(t *testing.T) {
		t.Parallel()

		listErr := errors.New("pkg exited 1")
		lister := failingLister{err: listErr}
		sink := &recordingSink{}

		r := newTestRunner(lister, fakeLocator{}, &fakeFetcher{}, sink)
		_, err := r.Run(context.Background())
		if !errors.Is(err, listErr) {
			t.Errorf("Run() error = %v, want wrapped listing error", err)
		}
		if sink.pages != 0 || sink.finalized {
			t.Error("no sink activity expected after listing failure")
		}
	})

	t.Run("finalize failure is fatal and reported", func(t *testing.T) {
		t.Parallel()

		locator := fakeLocator{"bash": {model.NewPageRef("/m/man1/bash.1")}}
		fetcher := &fakeFetcher{texts: map[string]string{"/m/man1/bash.1": "x\n"}}
		sink := &recordingSink{finalizeErr: errors.New("disk full")}

		r := newTestRunner(StaticLister{"bash"}, locator, fetcher, sink)
		stats, err := r.Run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "finalize document") {
			t.Errorf("Run() error = %v, want finalize failure", err)
		}
		if stats.Processed != 1 {
			t.Errorf("Processed = %d, want complete stats despite finalize failure", stats.Processed)
		}
	})

	t.Run("cancellation stops the run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		locator := fakeLocator{"bash": {model.NewPageRef("/m/man1/bash.1")}}
		fetcher := &fakeFetcher{texts: map[string]string{"/m/man1/bash.1": "x\n"}}
		sink := &recordingSink{}

		r := newTestRunner(StaticLister{"bash"}, locator, fetcher, sink)
		_, err := r.Run(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
		if sink.finalized {
			t.Error("cancelled run must not finalize the document")
		}
	})
}

// failingLister always fails the OS query.
type failingLister struct {
	err error
}

// ListPackages implements Lister.
func (f failingLister) ListPackages(_ context.Context) ([]string, error) {
	return nil, f.err
}
