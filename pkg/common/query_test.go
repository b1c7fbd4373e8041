package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			"empty params",
			Params{},
			"",
		},
		{
			"scalar params in sorted key order",
			Params{"offset": 0, "limit": 25},
			"limit=25&offset=0",
		},
		{
			"string array uses non-indexed repeated form",
			Params{"status_id": []string{"open", "closed"}},
			"status_id%5B%5D=open&status_id%5B%5D=closed",
		},
		{
			"int array uses non-indexed repeated form",
			Params{"tracker_id": []int{1, 3}},
			"tracker_id%5B%5D=1&tracker_id%5B%5D=3",
		},
		{
			"mixed array",
			Params{"f": []any{"subject", 2}},
			"f%5B%5D=subject&f%5B%5D=2",
		},
		{
			"bool and float scalars",
			Params{"closed": true, "hours": 1.5},
			"closed=true&hours=1.5",
		},
		{
			"integral float renders without dot",
			Params{"limit": float64(100)},
			"limit=100",
		},
		{
			"values are escaped",
			Params{"subject": "a b&c"},
			"subject=a+b%26c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EncodeQuery(tt.params))
		})
	}
}
