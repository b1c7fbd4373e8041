package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		defaults  Params
		overrides Params
		want      Params
	}{
		{
			"override wins on collision",
			Params{"limit": 25, "offset": 0},
			Params{"limit": 50},
			Params{"limit": 50, "offset": 0},
		},
		{
			"false is dropped",
			Params{},
			Params{"closed": false, "open": true},
			Params{"open": true},
		},
		{
			"nil is dropped",
			Params{"tracker_id": nil},
			Params{},
			Params{},
		},
		{
			"empty string is dropped",
			Params{"sort": ""},
			Params{"status_id": "open"},
			Params{"status_id": "open"},
		},
		{
			"empty containers are dropped",
			Params{},
			Params{"ids": []int{}, "tags": []string{}, "extra": map[string]any{}},
			Params{},
		},
		{
			"zero is kept",
			Params{"offset": 0},
			Params{"done_ratio": 0},
			Params{"offset": 0, "done_ratio": 0},
		},
		{
			"non-empty containers are kept",
			Params{},
			Params{"tracker_id": []int{1, 2}},
			Params{"tracker_id": []int{1, 2}},
		},
		{
			"default dropped when overridden to empty",
			Params{"sort": "id:desc"},
			Params{"sort": ""},
			Params{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.defaults, tt.overrides))
		})
	}
}

func TestSanitize_DoesNotMutateInputs(t *testing.T) {
	defaults := Params{"limit": 25}
	overrides := Params{"offset": 0, "sort": ""}

	Sanitize(defaults, overrides)

	require.Equal(t, Params{"limit": 25}, defaults)
	require.Equal(t, Params{"offset": 0, "sort": ""}, overrides)
}
