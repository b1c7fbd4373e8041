package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cli := resty.New().SetBaseURL(server.URL)
	Instrument(cli)

	before200 := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "200"))
	before404 := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "404"))

	_, err := cli.R().Get("/ok")
	require.NoError(t, err)
	_, err = cli.R().Get("/missing")
	require.NoError(t, err)

	require.Equal(t, before200+1, testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "200")))
	require.Equal(t, before404+1, testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "404")))
}
