package uploads

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("successful upload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/uploads.json", r.URL.Path)
			require.Equal(t, "POST", r.Method)
			require.Equal(t, "report.pdf", r.URL.Query().Get("filename"))
			require.Contains(t, r.Header.Get("Content-Type"), "application/octet-stream")

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.Equal(t, "file content", string(body))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"upload":{"id":17,"token":"17.abcdef"}}`))
		}))
		defer server.Close()

		client := NewClient(resty.New().SetBaseURL(server.URL))
		upload, err := client.Send(ctx, "report.pdf", []byte("file content"))
		require.NoError(t, err)
		require.Equal(t, 17, upload.ID)
		require.Equal(t, "17.abcdef", upload.Token)
	})

	t.Run("empty filename gets a generated name", func(t *testing.T) {
		var filename string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			filename = r.URL.Query().Get("filename")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"upload":{"id":1,"token":"1.aa"}}`))
		}))
		defer server.Close()

		client := NewClient(resty.New().SetBaseURL(server.URL))
		_, err := client.Send(ctx, "", []byte("x"))
		require.NoError(t, err)
		require.NotEmpty(t, filename)
		require.True(t, strings.HasSuffix(filename, ".bin"))
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		client := NewClient(resty.New())
		_, err := client.Send(ctx, "a.txt", nil)
		require.Error(t, err)
		require.Equal(t, "'content' is required", err.Error())
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"upload":{"id":2,"token":"2.bb"}}`))
		}))
		defer server.Close()

		client := NewClient(resty.New().SetBaseURL(server.URL))
		upload, err := client.Send(ctx, "a.txt", []byte("x"))
		require.NoError(t, err)
		require.Equal(t, int32(2), calls.Load())
		require.Equal(t, "2.bb", upload.Token)
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		client := NewClient(resty.New().SetBaseURL(server.URL))
		_, err := client.Send(ctx, "a.txt", []byte("x"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "422")
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries disabled", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(resty.New().SetBaseURL(server.URL)).SetMaxRetries(0)
		_, err := client.Send(ctx, "a.txt", []byte("x"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "503")
		require.Equal(t, int32(1), calls.Load())
	})
}
