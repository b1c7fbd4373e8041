// Package redmine provides a Go client library for the Redmine issue
// tracker's REST API.
//
// This package covers issues, projects, users, time entries and attachment
// uploads, with transparent pagination for collection endpoints and XML
// write payloads carrying custom fields.
//
// Basic usage:
//
//	client := redmine.NewClient("https://redmine.example.com", "your-api-key")
//
//	issue, err := client.Issues().Get(ctx, 42, "journals")
//	// ... inspect the issue
package redmine

import (
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/git-hulk/redmine-go/pkg/issues"
	"github.com/git-hulk/redmine-go/pkg/metrics"
	"github.com/git-hulk/redmine-go/pkg/projects"
	"github.com/git-hulk/redmine-go/pkg/timeentries"
	"github.com/git-hulk/redmine-go/pkg/uploads"
	"github.com/git-hulk/redmine-go/pkg/users"
)

// Redmine is the main client for interacting with a Redmine server.
//
// It configures a shared HTTP client (base URL, authentication) and exposes
// per-resource clients through accessor methods. The client holds no mutable
// request state: every call carries its own explicit response.
type Redmine struct {
	issue     *issues.Client
	project   *projects.Client
	user      *users.Client
	timeEntry *timeentries.Client
	upload    *uploads.Client
	restyCli  *resty.Client
}

// ClientOption is a function that configures a Redmine client.
type ClientOption func(*clientConfig)

// clientConfig holds configuration options for the Redmine client.
type clientConfig struct {
	httpClient *http.Client
	login      string
	password   string
	metrics    bool
}

// WithHTTPClient sets a custom HTTP client, for callers that need to tune
// timeouts or transport settings. Resty uses its default client otherwise.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(config *clientConfig) {
		config.httpClient = httpClient
	}
}

// WithBasicAuth authenticates with a login and password instead of an API
// key. Pass an empty apiKey to NewClient when using this option.
func WithBasicAuth(login, password string) ClientOption {
	return func(config *clientConfig) {
		config.login = login
		config.password = password
	}
}

// WithMetrics enables prometheus instrumentation of every request issued
// through this client.
func WithMetrics() ClientOption {
	return func(config *clientConfig) {
		config.metrics = true
	}
}

// NewClient creates a new Redmine client for the given server URL.
//
// The apiKey is the per-user REST API key from the Redmine account page; it
// is sent as the X-Redmine-API-Key header on every request. Optional
// configuration can be provided using ClientOption functions.
func NewClient(host string, apiKey string, options ...ClientOption) *Redmine {
	config := &clientConfig{}
	for _, option := range options {
		option(config)
	}

	var restyCli *resty.Client
	if config.httpClient != nil {
		restyCli = resty.NewWithClient(config.httpClient)
	} else {
		restyCli = resty.New()
	}

	restyCli.SetBaseURL(host)
	if apiKey != "" {
		restyCli.SetHeader("X-Redmine-API-Key", apiKey)
	}
	if config.login != "" {
		restyCli.SetBasicAuth(config.login, config.password)
	}
	if config.metrics {
		metrics.Instrument(restyCli)
	}

	return &Redmine{
		issue:     issues.NewClient(restyCli),
		project:   projects.NewClient(restyCli),
		user:      users.NewClient(restyCli),
		timeEntry: timeentries.NewClient(restyCli),
		upload:    uploads.NewClient(restyCli),
		restyCli:  restyCli,
	}
}

// Issues returns a client for managing issues: listing with filters,
// transparent pagination, creation and updates with custom fields, and
// watcher management.
func (c *Redmine) Issues() *issues.Client {
	return c.issue
}

// Projects returns a client for managing projects, including archiving.
func (c *Redmine) Projects() *projects.Client {
	return c.project
}

// Users returns a client for managing user accounts. Most operations
// require admin privileges.
func (c *Redmine) Users() *users.Client {
	return c.user
}

// TimeEntries returns a client for logging and querying tracked time.
func (c *Redmine) TimeEntries() *timeentries.Client {
	return c.timeEntry
}

// Uploads returns a client for uploading attachments. The returned token is
// referenced from issue payloads to attach the file.
func (c *Redmine) Uploads() *uploads.Client {
	return c.upload
}
