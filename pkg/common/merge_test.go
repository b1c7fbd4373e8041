package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			"arrays concatenate",
			map[string]any{"issues": []any{1, 2}},
			map[string]any{"issues": []any{3}},
			map[string]any{"issues": []any{1, 2, 3}},
		},
		{
			"colliding scalars combine into a sequence",
			map[string]any{"offset": 0, "total_count": 3},
			map[string]any{"offset": 100, "total_count": 3},
			map[string]any{"offset": []any{0, 100}, "total_count": []any{3, 3}},
		},
		{
			"third page appends to the combined sequence",
			map[string]any{"limit": []any{100, 100}},
			map[string]any{"limit": 50},
			map[string]any{"limit": []any{100, 100, 50}},
		},
		{
			"missing keys are added",
			map[string]any{},
			map[string]any{"issues": []any{1}, "limit": 25},
			map[string]any{"issues": []any{1}, "limit": 25},
		},
		{
			"nested maps merge recursively",
			map[string]any{"meta": map[string]any{"a": []any{1}}},
			map[string]any{"meta": map[string]any{"a": []any{2}, "b": "x"}},
			map[string]any{"meta": map[string]any{"a": []any{1, 2}, "b": "x"}},
		},
		{
			"scalar appends to an existing array",
			map[string]any{"issues": []any{1}},
			map[string]any{"issues": "none"},
			map[string]any{"issues": []any{1, "none"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Merge(tt.dst, tt.src))
		})
	}
}

func TestMerge_NilDestination(t *testing.T) {
	got := Merge(nil, map[string]any{"issues": []any{1}})
	require.Equal(t, map[string]any{"issues": []any{1}}, got)
}
