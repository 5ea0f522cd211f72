package pipeline

import (
	"context"
	"reflect"
	"testing"
)

// TestChunk tests batch partitioning.
func TestChunk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		names []string
		size  int
		want  [][]string
	}{
		{
			name:  "even split",
			names: []string{"a", "b", "c", "d"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "short final batch",
			names: []string{"a", "b", "c"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:  "batch larger than input",
			names: []string{"a"},
			size:  50,
			want:  [][]string{{"a"}},
		},
		{
			name:  "empty input",
			names: nil,
			size:  10,
			want:  nil,
		},
		{
			name:  "invalid size",
			names: []string{"a"},
			size:  0,
			want:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := chunk(tt.names, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("chunk(%v, %d) = %v, want %v", tt.names, tt.size, got, tt.want)
			}
		})
	}
}

// TestStaticLister tests set semantics of the fixed lister.
func TestStaticLister(t *testing.T) {
	t.Parallel()

	got, err := StaticLister{"zsh", "bash", "zsh", "", "curl"}.ListPackages(context.Background())
	if err != nil {
		t.Fatalf("ListPackages() error = %v", err)
	}

	want := []string{"bash", "curl", "zsh"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListPackages() = %v, want %v", got, want)
	}
}
