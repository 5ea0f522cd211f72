package book

// Sink is the document being assembled. All methods are driven by the
// pipeline's aggregator goroutine in reading order; implementations are
// not required to be safe for concurrent use.
type Sink interface {
	// AddPage starts a new document page.
	AddPage()

	// WriteTitle writes a titled section heading on the current page.
	WriteTitle(text string)

	// WriteBody writes a body text block on the current page.
	WriteBody(text string)

	// Finalize persists the document to disk, overwriting any previous
	// artifact. Failure here is fatal for the run.
	Finalize() error
}
