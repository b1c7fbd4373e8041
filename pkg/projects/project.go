// Package projects implements the Redmine projects API.
package projects

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

// Project represents a Redmine project as returned by read operations.
type Project struct {
	ID             int                        `json:"id,omitempty" xml:"id,omitempty"`
	Name           string                     `json:"name" xml:"name"`
	Identifier     string                     `json:"identifier" xml:"identifier"`
	Description    string                     `json:"description,omitempty" xml:"description,omitempty"`
	Homepage       string                     `json:"homepage,omitempty" xml:"homepage,omitempty"`
	Parent         *common.Ref                `json:"parent,omitempty" xml:"parent,omitempty"`
	Status         int                        `json:"status,omitempty" xml:"status,omitempty"`
	IsPublic       bool                       `json:"is_public,omitempty" xml:"is_public,omitempty"`
	InheritMembers bool                       `json:"inherit_members,omitempty" xml:"inherit_members,omitempty"`
	CustomFields   []customfields.CustomField `json:"custom_fields,omitempty" xml:"-"`
	CreatedOn      time.Time                  `json:"created_on,omitempty" xml:"-"`
	UpdatedOn      time.Time                  `json:"updated_on,omitempty" xml:"-"`
}

// ListParams defines the query parameters for listing projects.
type ListParams struct {
	Limit  int
	Offset int
}

// ToQueryString converts the ListParams to a URL query string.
func (p *ListParams) ToQueryString() string {
	parts := make([]string, 0)

	if p.Limit != 0 {
		parts = append(parts, "limit="+strconv.Itoa(p.Limit))
	}
	if p.Offset != 0 {
		parts = append(parts, "offset="+strconv.Itoa(p.Offset))
	}

	return strings.Join(parts, "&")
}

// ListProjects represents the response from listing projects.
type ListProjects struct {
	common.PagedResult
	Projects []Project `json:"projects"`
}

// CreateRequest is the XML payload for creating a project.
type CreateRequest struct {
	XMLName        xml.Name            `xml:"project"`
	Name           string              `xml:"name"`
	Identifier     string              `xml:"identifier"`
	Description    string              `xml:"description,omitempty"`
	Homepage       string              `xml:"homepage,omitempty"`
	IsPublic       bool                `xml:"is_public,omitempty"`
	ParentID       int                 `xml:"parent_id,omitempty"`
	InheritMembers bool                `xml:"inherit_members,omitempty"`
	CustomFields   customfields.Fields `xml:"custom_fields,omitempty"`
}

// UpdateRequest is the XML payload for updating a project.
type UpdateRequest struct {
	XMLName      xml.Name            `xml:"project"`
	Name         string              `xml:"name,omitempty"`
	Description  string              `xml:"description,omitempty"`
	Homepage     string              `xml:"homepage,omitempty"`
	ParentID     int                 `xml:"parent_id,omitempty"`
	CustomFields customfields.Fields `xml:"custom_fields,omitempty"`
}

func (req *CreateRequest) validate() error {
	if req.Name == "" {
		return errors.New("'name' is required")
	}
	if req.Identifier == "" {
		return errors.New("'identifier' is required")
	}
	return nil
}

// Client represents the projects API client.
type Client struct {
	restyCli  *resty.Client
	paginator *common.Paginator
}

// NewClient creates a new projects API client.
func NewClient(cli *resty.Client) *Client {
	return &Client{
		restyCli:  cli,
		paginator: common.NewPaginator(cli),
	}
}

// List retrieves one page of projects.
func (c *Client) List(ctx context.Context, params ListParams) (*ListProjects, error) {
	var listResponse ListProjects
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&listResponse).
		SetQueryString(params.ToQueryString()).
		Get("/projects.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("list projects failed with status code %d", rsp.StatusCode())
	}
	return &listResponse, nil
}

// ListAll retrieves every visible project, fetching as many pages as needed
// and merging them into a single aggregate.
func (c *Client) ListAll(ctx context.Context, filters common.Params) (map[string]any, error) {
	result, err := c.paginator.FetchAll(ctx, "/projects.json", filters)
	if err != nil {
		return nil, err
	}
	aggregate, ok := result.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return aggregate, nil
}

// Get retrieves a specific project by numeric ID or string identifier.
func (c *Client) Get(ctx context.Context, projectID string) (*Project, error) {
	if projectID == "" {
		return nil, errors.New("'projectID' is required")
	}

	var result struct {
		Project Project `json:"project"`
	}
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&result).
		SetPathParam("projectID", url.PathEscape(projectID)).
		Get("/projects/{projectID}.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("get project failed with status code %d", rsp.StatusCode())
	}
	return &result.Project, nil
}

// Create creates a new project from an XML payload.
func (c *Client) Create(ctx context.Context, createReq *CreateRequest) (*Project, error) {
	if err := createReq.validate(); err != nil {
		return nil, err
	}

	var createdProject Project
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(createReq).
		SetResult(&createdProject).
		Post("/projects.xml")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("failed to create project: %s, got status code: %d",
			rsp.String(), rsp.StatusCode())
	}
	return &createdProject, nil
}

// Update updates a project by numeric ID or string identifier.
func (c *Client) Update(ctx context.Context, projectID string, updateReq *UpdateRequest) error {
	if projectID == "" {
		return errors.New("'projectID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(updateReq).
		SetPathParam("projectID", url.PathEscape(projectID)).
		Put("/projects/{projectID}.xml")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("failed to update project, got status code: %d", rsp.StatusCode())
	}
	return nil
}

// Archive archives a project. Archived projects disappear from listings
// until unarchived.
func (c *Client) Archive(ctx context.Context, projectID string) error {
	return c.statusChange(ctx, projectID, "archive")
}

// Unarchive restores an archived project.
func (c *Client) Unarchive(ctx context.Context, projectID string) error {
	return c.statusChange(ctx, projectID, "unarchive")
}

func (c *Client) statusChange(ctx context.Context, projectID, action string) error {
	if projectID == "" {
		return errors.New("'projectID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetPathParam("projectID", url.PathEscape(projectID)).
		SetPathParam("action", action).
		Put("/projects/{projectID}/{action}.json")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("%s project failed with status code %d", action, rsp.StatusCode())
	}
	return nil
}

// Delete deletes a project by numeric ID or string identifier.
func (c *Client) Delete(ctx context.Context, projectID string) error {
	if projectID == "" {
		return errors.New("'projectID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetPathParam("projectID", url.PathEscape(projectID)).
		Delete("/projects/{projectID}.json")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("delete project failed with status code %d", rsp.StatusCode())
	}
	return nil
}
