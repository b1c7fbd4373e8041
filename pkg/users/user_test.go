package users

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestListParams_ToQueryString(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
		want   string
	}{
		{"no params", ListParams{}, ""},
		{"status filter", ListParams{Status: StatusLocked}, "status=3"},
		{"name filter", ListParams{Name: "john doe"}, "name=john+doe"},
		{"group filter", ListParams{GroupID: 4}, "group_id=4"},
		{"pagination", ListParams{Limit: 50, Offset: 25}, "limit=50&offset=25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.params.ToQueryString())
		})
	}
}

func TestClient_List(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users.json", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("status"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"id":1,"login":"admin","admin":true}],"total_count":1,"offset":0,"limit":25}`))
	}))
	defer server.Close()

	client := NewClient(resty.New().SetBaseURL(server.URL))
	result, err := client.List(ctx, ListParams{Status: StatusActive})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	require.Equal(t, "admin", result.Users[0].Login)
	require.True(t, result.Users[0].Admin)
}

func TestClient_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("successful get user", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users/7.json", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user":{"id":7,"login":"jsmith","firstname":"John","lastname":"Smith"}}`))
		}))
		defer server.Close()

		client := NewClient(resty.New().SetBaseURL(server.URL))
		user, err := client.Get(ctx, 7)
		require.NoError(t, err)
		require.Equal(t, "jsmith", user.Login)
		require.Equal(t, "John", user.FirstName)
	})

	t.Run("missing user ID", func(t *testing.T) {
		client := NewClient(resty.New())
		_, err := client.Get(ctx, 0)
		require.Error(t, err)
		require.Equal(t, "'userID' is required", err.Error())
	})
}

func TestClient_Current(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/current.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":3,"login":"me","api_key":"secret"}}`))
	}))
	defer server.Close()

	client := NewClient(resty.New().SetBaseURL(server.URL))
	user, err := client.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, user.ID)
	require.Equal(t, "secret", user.APIKey)
}

func TestClient_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful create", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users.xml", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.Contains(t, string(body), "<login>jsmith</login>")
			require.Contains(t, string(body), "<mail>jsmith@example.com</mail>")

			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`<user><id>8</id><login>jsmith</login></user>`))
		}))
		defer server.Close()

		client := NewClient(resty.New().SetBaseURL(server.URL))
		created, err := client.Create(ctx, &CreateRequest{
			Login:     "jsmith",
			FirstName: "John",
			LastName:  "Smith",
			Mail:      "jsmith@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, 8, created.ID)
	})

	t.Run("validation", func(t *testing.T) {
		client := NewClient(resty.New())

		_, err := client.Create(ctx, &CreateRequest{FirstName: "J", LastName: "S", Mail: "j@example.com"})
		require.Equal(t, "'login' is required", err.Error())

		_, err = client.Create(ctx, &CreateRequest{Login: "j", Mail: "j@example.com"})
		require.Equal(t, "'firstname' and 'lastname' are required", err.Error())

		_, err = client.Create(ctx, &CreateRequest{Login: "j", FirstName: "J", LastName: "S"})
		require.Equal(t, "'mail' is required", err.Error())
	})
}

func TestClient_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "PUT":
			require.Equal(t, "/users/7.xml", r.URL.Path)
		case "DELETE":
			require.Equal(t, "/users/7.json", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(resty.New().SetBaseURL(server.URL))
	require.NoError(t, client.Update(ctx, 7, &UpdateRequest{Mail: "new@example.com"}))
	require.NoError(t, client.Delete(ctx, 7))

	require.Error(t, client.Update(ctx, 0, &UpdateRequest{}))
	require.Error(t, client.Delete(ctx, 0))
}
