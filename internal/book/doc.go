// Package book writes harvested documentation into a single document.
//
// The Sink interface is the pipeline's only view of the rendering layer:
// add a page, write a titled section, write a body block, finalize to
// disk. Two implementations exist:
//   - PDFSink: paginated PDF with a running header and page-number footer
//   - MarkdownSink: one Markdown file with per-page sections
//
// Design decision: The pipeline depends only on the interface, not on a
// concrete renderer type. Rendering libraries are typically not safe for
// concurrent use, so all Sink calls are made from the pipeline's single
// aggregator goroutine; implementations need no internal locking.
package book
