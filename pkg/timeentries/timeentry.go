// Package timeentries implements the Redmine time tracking API.
package timeentries

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/git-hulk/redmine-go/pkg/common"
	"github.com/git-hulk/redmine-go/pkg/customfields"
)

// TimeEntry represents hours logged against an issue or a project.
type TimeEntry struct {
	ID           int                        `json:"id,omitempty" xml:"id,omitempty"`
	Project      *common.Ref                `json:"project,omitempty" xml:"project,omitempty"`
	Issue        *issueRef                  `json:"issue,omitempty" xml:"issue,omitempty"`
	User         *common.Ref                `json:"user,omitempty" xml:"user,omitempty"`
	Activity     *common.Ref                `json:"activity,omitempty" xml:"activity,omitempty"`
	Hours        float64                    `json:"hours" xml:"hours"`
	Comments     string                     `json:"comments,omitempty" xml:"comments,omitempty"`
	SpentOn      string                     `json:"spent_on,omitempty" xml:"spent_on,omitempty"`
	CustomFields []customfields.CustomField `json:"custom_fields,omitempty" xml:"-"`
	CreatedOn    time.Time                  `json:"created_on,omitempty" xml:"-"`
	UpdatedOn    time.Time                  `json:"updated_on,omitempty" xml:"-"`
}

// issueRef carries only the id; time entry responses embed no issue subject.
type issueRef struct {
	ID int `json:"id" xml:"id,attr"`
}

// ListParams defines the query parameters for listing time entries.
type ListParams struct {
	IssueID   int
	ProjectID string
	UserID    int
	From      string // YYYY-MM-DD
	To        string // YYYY-MM-DD
	Limit     int
	Offset    int
}

// ToQueryString converts the ListParams to a URL query string.
func (p *ListParams) ToQueryString() string {
	parts := make([]string, 0)

	if p.IssueID != 0 {
		parts = append(parts, "issue_id="+strconv.Itoa(p.IssueID))
	}
	if p.ProjectID != "" {
		parts = append(parts, "project_id="+url.QueryEscape(p.ProjectID))
	}
	if p.UserID != 0 {
		parts = append(parts, "user_id="+strconv.Itoa(p.UserID))
	}
	if p.From != "" {
		parts = append(parts, "from="+url.QueryEscape(p.From))
	}
	if p.To != "" {
		parts = append(parts, "to="+url.QueryEscape(p.To))
	}
	if p.Limit != 0 {
		parts = append(parts, "limit="+strconv.Itoa(p.Limit))
	}
	if p.Offset != 0 {
		parts = append(parts, "offset="+strconv.Itoa(p.Offset))
	}

	return strings.Join(parts, "&")
}

// ListTimeEntries represents the response from listing time entries.
type ListTimeEntries struct {
	common.PagedResult
	TimeEntries []TimeEntry `json:"time_entries"`
}

// CreateRequest is the XML payload for logging time. Exactly one of IssueID
// and ProjectID must be set.
type CreateRequest struct {
	XMLName      xml.Name            `xml:"time_entry"`
	IssueID      int                 `xml:"issue_id,omitempty"`
	ProjectID    int                 `xml:"project_id,omitempty"`
	SpentOn      string              `xml:"spent_on,omitempty"`
	Hours        float64             `xml:"hours"`
	ActivityID   int                 `xml:"activity_id,omitempty"`
	Comments     string              `xml:"comments,omitempty"`
	CustomFields customfields.Fields `xml:"custom_fields,omitempty"`
}

// UpdateRequest is the XML payload for updating a time entry.
type UpdateRequest struct {
	XMLName      xml.Name            `xml:"time_entry"`
	SpentOn      string              `xml:"spent_on,omitempty"`
	Hours        float64             `xml:"hours,omitempty"`
	ActivityID   int                 `xml:"activity_id,omitempty"`
	Comments     string              `xml:"comments,omitempty"`
	CustomFields customfields.Fields `xml:"custom_fields,omitempty"`
}

func (req *CreateRequest) validate() error {
	if req.Hours <= 0 {
		return errors.New("'hours' is required")
	}
	if (req.IssueID == 0) == (req.ProjectID == 0) {
		return errors.New("exactly one of 'issueID' and 'projectID' is required")
	}
	return nil
}

// Client represents the time entries API client.
type Client struct {
	restyCli  *resty.Client
	paginator *common.Paginator
}

// NewClient creates a new time entries API client.
func NewClient(cli *resty.Client) *Client {
	return &Client{
		restyCli:  cli,
		paginator: common.NewPaginator(cli),
	}
}

// List retrieves one page of time entries matching the given filters.
func (c *Client) List(ctx context.Context, params ListParams) (*ListTimeEntries, error) {
	var listResponse ListTimeEntries
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&listResponse).
		SetQueryString(params.ToQueryString()).
		Get("/time_entries.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("list time entries failed with status code %d", rsp.StatusCode())
	}
	return &listResponse, nil
}

// ListAll retrieves every time entry matching the given filters, merging as
// many pages as needed into a single aggregate.
func (c *Client) ListAll(ctx context.Context, filters common.Params) (map[string]any, error) {
	result, err := c.paginator.FetchAll(ctx, "/time_entries.json", filters)
	if err != nil {
		return nil, err
	}
	aggregate, ok := result.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return aggregate, nil
}

// Get retrieves a specific time entry by ID.
func (c *Client) Get(ctx context.Context, entryID int) (*TimeEntry, error) {
	if entryID <= 0 {
		return nil, errors.New("'entryID' is required")
	}

	var result struct {
		TimeEntry TimeEntry `json:"time_entry"`
	}
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&result).
		SetPathParam("entryID", strconv.Itoa(entryID)).
		Get("/time_entries/{entryID}.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("get time entry failed with status code %d", rsp.StatusCode())
	}
	return &result.TimeEntry, nil
}

// Create logs time against an issue or a project.
func (c *Client) Create(ctx context.Context, createReq *CreateRequest) (*TimeEntry, error) {
	if err := createReq.validate(); err != nil {
		return nil, err
	}

	var createdEntry TimeEntry
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(createReq).
		SetResult(&createdEntry).
		Post("/time_entries.xml")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("failed to create time entry: %s, got status code: %d",
			rsp.String(), rsp.StatusCode())
	}
	return &createdEntry, nil
}

// Update updates a time entry by ID.
func (c *Client) Update(ctx context.Context, entryID int, updateReq *UpdateRequest) error {
	if entryID <= 0 {
		return errors.New("'entryID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(updateReq).
		SetPathParam("entryID", strconv.Itoa(entryID)).
		Put("/time_entries/{entryID}.xml")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("failed to update time entry, got status code: %d", rsp.StatusCode())
	}
	return nil
}

// Delete deletes a time entry by ID.
func (c *Client) Delete(ctx context.Context, entryID int) error {
	if entryID <= 0 {
		return errors.New("'entryID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetPathParam("entryID", strconv.Itoa(entryID)).
		Delete("/time_entries/{entryID}.json")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("delete time entry failed with status code %d", rsp.StatusCode())
	}
	return nil
}
