package pipeline

import (
	"context"
	"sort"
)

// chunk partitions names into fixed-size batches, preserving order. The
// final batch may be shorter. Batching bounds the number of concurrently
// live worker goroutines and OS subprocesses; this is a resource
// management decision, not a style choice.
func chunk(names []string, size int) [][]string {
	if size <= 0 || len(names) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(names)+size-1)/size)
	for start := 0; start < len(names); start += size {
		end := min(start+size, len(names))
		batches = append(batches, names[start:end])
	}
	return batches
}

// StaticLister is a Lister over a fixed name list, used when the caller
// supplies explicit packages instead of querying the OS. It applies the
// same set semantics as the real lister: deduplicated, sorted output.
type StaticLister []string

// ListPackages returns the fixed names, deduplicated and sorted.
func (s StaticLister) ListPackages(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{}, len(s))
	names := make([]string, 0, len(s))
	for _, name := range s {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
