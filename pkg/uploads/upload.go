// Package uploads implements the Redmine attachment upload API. A successful
// upload returns a token that later write payloads reference to attach the
// file to an issue or another container.
package uploads

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/git-hulk/redmine-go/pkg/common"
)

// Upload is the server's receipt for an uploaded file.
type Upload struct {
	ID    int    `json:"id"`
	Token string `json:"token"`
}

// Client represents the uploads API client.
type Client struct {
	restyCli   *resty.Client
	maxRetries uint64
}

// NewClient creates a new uploads API client. Uploads retry transient
// failures (transport errors, 429 and 5xx) up to three times by default;
// SetMaxRetries adjusts that.
func NewClient(cli *resty.Client) *Client {
	return &Client{restyCli: cli, maxRetries: 3}
}

// SetMaxRetries changes how many retry attempts an upload gets. Zero
// disables retries entirely.
func (c *Client) SetMaxRetries(n uint64) *Client {
	c.maxRetries = n
	return c
}

// Send uploads raw file content and returns the attachment token. An empty
// filename gets a generated placeholder name, since Redmine requires one.
func (c *Client) Send(ctx context.Context, filename string, content []byte) (*Upload, error) {
	if len(content) == 0 {
		return nil, errors.New("'content' is required")
	}
	if filename == "" {
		filename = uuid.Must(uuid.NewV4()).String() + ".bin"
	}

	var result struct {
		Upload Upload `json:"upload"`
	}
	var rsp *resty.Response
	attempt := func() error {
		r, err := c.restyCli.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/octet-stream").
			SetQueryParam("filename", filename).
			SetBody(content).
			SetResult(&result).
			Post("/uploads.json")
		if err != nil {
			return err
		}
		rsp = r
		if common.TransientStatus(r.StatusCode()) {
			return fmt.Errorf("transient status code %d", r.StatusCode())
		}
		return nil
	}

	err := common.RetryTransient(ctx, c.maxRetries, attempt)
	if err != nil && rsp == nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("upload failed with status code %d", rsp.StatusCode())
	}
	return &result.Upload, nil
}
