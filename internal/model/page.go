package model

import (
	"path/filepath"
	"sort"
	"strings"
)

// compressionSuffixes lists file extensions the package manifest may attach
// to pre-compressed manual pages. They are trimmed from display names and
// used by the locator to skip entries the renderer cannot open directly.
var compressionSuffixes = []string{".gz", ".bz2", ".xz", ".Z", ".zst"}

// PageRef identifies one manual page owned by a package.
//
// A ref either carries the absolute path reported by the package manifest,
// or only the bare package name when no manifest entry was found and the
// renderer should resolve the name through its own search path.
type PageRef struct {
	// Path is the absolute manual page path from the package manifest.
	// Empty for bare-name fallback refs.
	Path string

	// Name is the bare package name used when Path is empty.
	Name string
}

// NewPageRef creates a PageRef for a manifest path.
func NewPageRef(path string) PageRef {
	return PageRef{Path: path}
}

// NewBareRef creates a fallback PageRef that resolves a bare package name
// through the renderer's search path.
func NewBareRef(name string) PageRef {
	return PageRef{Name: name}
}

// Target returns the argument passed to the renderer: the manifest path
// when one was located, otherwise the bare package name.
func (r PageRef) Target() string {
	if r.Path != "" {
		return r.Path
	}
	return r.Name
}

// Display returns the human-readable page name: the path basename with any
// compression suffix trimmed, or the bare name for fallback refs.
func (r PageRef) Display() string {
	if r.Path == "" {
		return r.Name
	}
	return TrimCompressionSuffix(filepath.Base(r.Path))
}

// HasCompressionSuffix reports whether the path ends in a known
// compressed-file extension.
func HasCompressionSuffix(path string) bool {
	for _, suffix := range compressionSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// TrimCompressionSuffix removes a single trailing compression extension.
func TrimCompressionSuffix(name string) string {
	for _, suffix := range compressionSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// FetchResult is one package's harvested documentation, produced by exactly
// one worker and consumed exactly once by the aggregator.
//
// An empty Pages map means "no documentation found", which is a valid and
// common outcome rather than an error. Err records an unexpected worker
// failure; page absence never sets it.
type FetchResult struct {
	// Package is the package the pages belong to.
	Package string

	// Pages maps display names to raw rendered text. Keys are unique per
	// package within one run.
	Pages map[string]string

	// Err is the first unexpected error the worker hit, if any.
	Err error
}

// NewFetchResult creates an empty FetchResult for the given package.
func NewFetchResult(pkg string) FetchResult {
	return FetchResult{
		Package: pkg,
		Pages:   make(map[string]string),
	}
}

// HasDocs reports whether any page text was fetched for the package.
func (r FetchResult) HasDocs() bool {
	return len(r.Pages) > 0
}

// SortedPageNames returns the display names in lexical order so the
// aggregator writes a package's pages deterministically.
func (r FetchResult) SortedPageNames() []string {
	names := make([]string, 0, len(r.Pages))
	for name := range r.Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
