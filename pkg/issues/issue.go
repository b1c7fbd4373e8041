// Package issues implements the Redmine issues API: listing with filters,
// transparent pagination, and XML write payloads including custom fields.
package issues

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-set/v3"

	"github.com/git-hulk/redmine-go/pkg/common"
	"github.com/git-hulk/redmine-go/pkg/customfields"
)

// validIncludes are the associations Redmine can embed in a single issue
// response via the include parameter.
var validIncludes = set.From([]string{
	"children", "attachments", "relations",
	"changesets", "journals", "watchers", "allowed_statuses",
})

// Issue represents a Redmine issue as returned by read operations.
type Issue struct {
	ID             int                        `json:"id,omitempty" xml:"id,omitempty"`
	Project        *common.Ref                `json:"project,omitempty" xml:"project,omitempty"`
	Tracker        *common.Ref                `json:"tracker,omitempty" xml:"tracker,omitempty"`
	Status         *common.Ref                `json:"status,omitempty" xml:"status,omitempty"`
	Priority       *common.Ref                `json:"priority,omitempty" xml:"priority,omitempty"`
	Author         *common.Ref                `json:"author,omitempty" xml:"author,omitempty"`
	AssignedTo     *common.Ref                `json:"assigned_to,omitempty" xml:"assigned_to,omitempty"`
	Category       *common.Ref                `json:"category,omitempty" xml:"category,omitempty"`
	FixedVersion   *common.Ref                `json:"fixed_version,omitempty" xml:"fixed_version,omitempty"`
	Subject        string                     `json:"subject" xml:"subject"`
	Description    string                     `json:"description,omitempty" xml:"description,omitempty"`
	StartDate      string                     `json:"start_date,omitempty" xml:"start_date,omitempty"`
	DueDate        string                     `json:"due_date,omitempty" xml:"due_date,omitempty"`
	DoneRatio      int                        `json:"done_ratio,omitempty" xml:"done_ratio,omitempty"`
	IsPrivate      bool                       `json:"is_private,omitempty" xml:"is_private,omitempty"`
	EstimatedHours float64                    `json:"estimated_hours,omitempty" xml:"estimated_hours,omitempty"`
	SpentHours     float64                    `json:"spent_hours,omitempty" xml:"spent_hours,omitempty"`
	CustomFields   []customfields.CustomField `json:"custom_fields,omitempty" xml:"-"`
	CreatedOn      time.Time                  `json:"created_on,omitempty" xml:"-"`
	UpdatedOn      time.Time                  `json:"updated_on,omitempty" xml:"-"`
	ClosedOn       *time.Time                 `json:"closed_on,omitempty" xml:"-"`
}

// ListParams defines the query parameters for listing issues.
type ListParams struct {
	ProjectID    string // numeric ID or project identifier
	SubprojectID string
	TrackerID    int
	StatusID     string // numeric ID, "open", "closed" or "*"
	AssignedToID string // numeric ID or "me"
	ParentID     int
	Sort         string
	Limit        int
	Offset       int
}

// ToQueryString converts the ListParams to a URL query string.
func (p *ListParams) ToQueryString() string {
	parts := make([]string, 0)

	if p.ProjectID != "" {
		parts = append(parts, "project_id="+url.QueryEscape(p.ProjectID))
	}
	if p.SubprojectID != "" {
		parts = append(parts, "subproject_id="+url.QueryEscape(p.SubprojectID))
	}
	if p.TrackerID != 0 {
		parts = append(parts, "tracker_id="+strconv.Itoa(p.TrackerID))
	}
	if p.StatusID != "" {
		parts = append(parts, "status_id="+url.QueryEscape(p.StatusID))
	}
	if p.AssignedToID != "" {
		parts = append(parts, "assigned_to_id="+url.QueryEscape(p.AssignedToID))
	}
	if p.ParentID != 0 {
		parts = append(parts, "parent_id="+strconv.Itoa(p.ParentID))
	}
	if p.Sort != "" {
		parts = append(parts, "sort="+url.QueryEscape(p.Sort))
	}
	if p.Limit != 0 {
		parts = append(parts, "limit="+strconv.Itoa(p.Limit))
	}
	if p.Offset != 0 {
		parts = append(parts, "offset="+strconv.Itoa(p.Offset))
	}

	return strings.Join(parts, "&")
}

// ListIssues represents the response from listing issues.
type ListIssues struct {
	common.PagedResult
	Issues []Issue `json:"issues"`
}

// UploadRef attaches a previously uploaded file (see the uploads package) to
// an issue by its token.
type UploadRef struct {
	Token       string `xml:"token"`
	Filename    string `xml:"filename,omitempty"`
	Description string `xml:"description,omitempty"`
	ContentType string `xml:"content_type,omitempty"`
}

// UploadRefs is a list of upload attachments. It marshals with the
// type="array" attribute Redmine requires on XML collections.
type UploadRefs []UploadRef

// MarshalXML implements xml.Marshaler.
func (u UploadRefs) MarshalXML(encoder *xml.Encoder, start xml.StartElement) error {
	if len(u) == 0 {
		return nil
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "type"}, Value: "array"})
	if err := encoder.EncodeToken(start); err != nil {
		return err
	}
	for _, ref := range u {
		if err := encoder.EncodeElement(ref, xml.StartElement{Name: xml.Name{Local: "upload"}}); err != nil {
			return err
		}
	}
	return encoder.EncodeToken(start.End())
}

// CreateRequest is the XML payload for creating an issue.
type CreateRequest struct {
	XMLName        xml.Name            `xml:"issue"`
	ProjectID      int                 `xml:"project_id,omitempty"`
	TrackerID      int                 `xml:"tracker_id,omitempty"`
	StatusID       int                 `xml:"status_id,omitempty"`
	PriorityID     int                 `xml:"priority_id,omitempty"`
	Subject        string              `xml:"subject"`
	Description    string              `xml:"description,omitempty"`
	CategoryID     int                 `xml:"category_id,omitempty"`
	FixedVersionID int                 `xml:"fixed_version_id,omitempty"`
	AssignedToID   int                 `xml:"assigned_to_id,omitempty"`
	ParentIssueID  int                 `xml:"parent_issue_id,omitempty"`
	StartDate      string              `xml:"start_date,omitempty"`
	DueDate        string              `xml:"due_date,omitempty"`
	EstimatedHours float64             `xml:"estimated_hours,omitempty"`
	IsPrivate      bool                `xml:"is_private,omitempty"`
	CustomFields   customfields.Fields `xml:"custom_fields,omitempty"`
	Uploads        UploadRefs          `xml:"uploads,omitempty"`
}

// UpdateRequest is the XML payload for updating an issue. Zero-valued fields
// are left untouched on the server.
type UpdateRequest struct {
	XMLName      xml.Name            `xml:"issue"`
	ProjectID    int                 `xml:"project_id,omitempty"`
	TrackerID    int                 `xml:"tracker_id,omitempty"`
	StatusID     int                 `xml:"status_id,omitempty"`
	PriorityID   int                 `xml:"priority_id,omitempty"`
	Subject      string              `xml:"subject,omitempty"`
	Description  string              `xml:"description,omitempty"`
	AssignedToID int                 `xml:"assigned_to_id,omitempty"`
	DoneRatio    int                 `xml:"done_ratio,omitempty"`
	Notes        string              `xml:"notes,omitempty"`
	PrivateNotes bool                `xml:"private_notes,omitempty"`
	CustomFields customfields.Fields `xml:"custom_fields,omitempty"`
	Uploads      UploadRefs          `xml:"uploads,omitempty"`
}

func (req *CreateRequest) validate() error {
	if req.Subject == "" {
		return errors.New("'subject' is required")
	}
	if req.ProjectID == 0 {
		return errors.New("'projectID' is required")
	}
	return nil
}

// Client represents the issues API client.
type Client struct {
	restyCli  *resty.Client
	paginator *common.Paginator
}

// NewClient creates a new issues API client.
func NewClient(cli *resty.Client) *Client {
	return &Client{
		restyCli:  cli,
		paginator: common.NewPaginator(cli),
	}
}

// List retrieves one page of issues matching the given filters.
func (c *Client) List(ctx context.Context, params ListParams) (*ListIssues, error) {
	var listResponse ListIssues
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&listResponse).
		SetQueryString(params.ToQueryString()).
		Get("/issues.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("list issues failed with status code %d", rsp.StatusCode())
	}
	return &listResponse, nil
}

// ListAll retrieves every issue matching the given filters, fetching as many
// pages as needed (chunks of at most 100) and merging them into a single
// aggregate. Filters use Redmine's query parameter names; "limit" bounds the
// total number of items (default 25).
func (c *Client) ListAll(ctx context.Context, filters common.Params) (map[string]any, error) {
	result, err := c.paginator.FetchAll(ctx, "/issues.json", filters)
	if err != nil {
		return nil, err
	}
	aggregate, ok := result.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return aggregate, nil
}

// Get retrieves a specific issue by ID, optionally embedding associated data
// (attachments, journals, watchers, ...). Includes are validated, deduped
// and sorted before the request goes out.
func (c *Client) Get(ctx context.Context, issueID int, includes ...string) (*Issue, error) {
	if issueID <= 0 {
		return nil, errors.New("'issueID' is required")
	}
	normalized, err := normalizeIncludes(includes)
	if err != nil {
		return nil, err
	}

	var result struct {
		Issue Issue `json:"issue"`
	}
	req := c.restyCli.R().
		SetContext(ctx).
		SetResult(&result).
		SetPathParam("issueID", strconv.Itoa(issueID))
	if len(normalized) > 0 {
		req.SetQueryParam("include", strings.Join(normalized, ","))
	}

	rsp, err := req.Get("/issues/{issueID}.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("get issue failed with status code %d", rsp.StatusCode())
	}
	return &result.Issue, nil
}

// Create creates a new issue from an XML payload.
func (c *Client) Create(ctx context.Context, createReq *CreateRequest) (*Issue, error) {
	if err := createReq.validate(); err != nil {
		return nil, err
	}

	var createdIssue Issue
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(createReq).
		SetResult(&createdIssue).
		Post("/issues.xml")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("failed to create issue: %s, got status code: %d",
			rsp.String(), rsp.StatusCode())
	}
	return &createdIssue, nil
}

// Update updates an issue by ID.
func (c *Client) Update(ctx context.Context, issueID int, updateReq *UpdateRequest) error {
	if issueID <= 0 {
		return errors.New("'issueID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(updateReq).
		SetPathParam("issueID", strconv.Itoa(issueID)).
		Put("/issues/{issueID}.xml")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("failed to update issue, got status code: %d", rsp.StatusCode())
	}
	return nil
}

// Delete deletes an issue by ID.
func (c *Client) Delete(ctx context.Context, issueID int) error {
	if issueID <= 0 {
		return errors.New("'issueID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetPathParam("issueID", strconv.Itoa(issueID)).
		Delete("/issues/{issueID}.json")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("delete issue failed with status code %d", rsp.StatusCode())
	}
	return nil
}

type watcherPayload struct {
	XMLName xml.Name `xml:"user_id"`
	ID      int      `xml:",chardata"`
}

// AddWatcher subscribes a user to an issue.
func (c *Client) AddWatcher(ctx context.Context, issueID, userID int) error {
	if issueID <= 0 {
		return errors.New("'issueID' is required")
	}
	if userID <= 0 {
		return errors.New("'userID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(watcherPayload{ID: userID}).
		SetPathParam("issueID", strconv.Itoa(issueID)).
		Post("/issues/{issueID}/watchers.xml")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("add watcher failed with status code %d", rsp.StatusCode())
	}
	return nil
}

// RemoveWatcher unsubscribes a user from an issue.
func (c *Client) RemoveWatcher(ctx context.Context, issueID, userID int) error {
	if issueID <= 0 {
		return errors.New("'issueID' is required")
	}
	if userID <= 0 {
		return errors.New("'userID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetPathParam("issueID", strconv.Itoa(issueID)).
		SetPathParam("userID", strconv.Itoa(userID)).
		Delete("/issues/{issueID}/watchers/{userID}.xml")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("remove watcher failed with status code %d", rsp.StatusCode())
	}
	return nil
}

func normalizeIncludes(includes []string) ([]string, error) {
	if len(includes) == 0 {
		return nil, nil
	}
	for _, include := range includes {
		if !validIncludes.Contains(include) {
			return nil, fmt.Errorf("invalid include: %s, must be one of %v", include, validIncludes)
		}
	}
	deduped := set.From(includes).Slice()
	sort.Strings(deduped)
	return deduped, nil
}
