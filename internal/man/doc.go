// Package man fetches and formats manual page text.
//
// The Fetcher invokes the external renderer (man by default) as a
// subprocess and returns its plain-text output. Failure isolation is the
// core policy here: a non-zero exit, a missing binary, or any other
// process error folds into ErrPageNotFound, because one missing page must
// never abort a batch.
//
// The formatter turns raw rendered text into a sequence of blocks
// (section headers and body paragraphs) ready for document output. It
// resolves legacy overstrike rendering, strips ANSI escapes and control
// characters, normalizes whitespace, and classifies section titles by the
// conventional all-uppercase-letters-and-spaces shape.
package man
