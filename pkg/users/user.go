// Package users implements the Redmine users API.
package users

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

// User statuses as reported by the Redmine admin API.
const (
	StatusAnonymous  = 0
	StatusActive     = 1
	StatusRegistered = 2
	StatusLocked     = 3
)

// User represents a Redmine user account.
type User struct {
	ID           int                        `json:"id,omitempty" xml:"id,omitempty"`
	Login        string                     `json:"login,omitempty" xml:"login,omitempty"`
	FirstName    string                     `json:"firstname,omitempty" xml:"firstname,omitempty"`
	LastName     string                     `json:"lastname,omitempty" xml:"lastname,omitempty"`
	Mail         string                     `json:"mail,omitempty" xml:"mail,omitempty"`
	APIKey       string                     `json:"api_key,omitempty" xml:"api_key,omitempty"`
	Status       int                        `json:"status,omitempty" xml:"status,omitempty"`
	Admin        bool                       `json:"admin,omitempty" xml:"admin,omitempty"`
	CustomFields []customfields.CustomField `json:"custom_fields,omitempty" xml:"-"`
	CreatedOn    time.Time                  `json:"created_on,omitempty" xml:"-"`
	LastLoginOn  *time.Time                 `json:"last_login_on,omitempty" xml:"-"`
}

// ListParams defines the query parameters for listing users.
type ListParams struct {
	Status  int
	Name    string // filters on login, firstname, lastname and mail
	GroupID int
	Limit   int
	Offset  int
}

// ToQueryString converts the ListParams to a URL query string.
func (p *ListParams) ToQueryString() string {
	parts := make([]string, 0)

	if p.Status != 0 {
		parts = append(parts, "status="+strconv.Itoa(p.Status))
	}
	if p.Name != "" {
		parts = append(parts, "name="+url.QueryEscape(p.Name))
	}
	if p.GroupID != 0 {
		parts = append(parts, "group_id="+strconv.Itoa(p.GroupID))
	}
	if p.Limit != 0 {
		parts = append(parts, "limit="+strconv.Itoa(p.Limit))
	}
	if p.Offset != 0 {
		parts = append(parts, "offset="+strconv.Itoa(p.Offset))
	}

	return strings.Join(parts, "&")
}

// ListUsers represents the response from listing users.
type ListUsers struct {
	common.PagedResult
	Users []User `json:"users"`
}

// CreateRequest is the XML payload for creating a user.
type CreateRequest struct {
	XMLName          xml.Name            `xml:"user"`
	Login            string              `xml:"login"`
	FirstName        string              `xml:"firstname"`
	LastName         string              `xml:"lastname"`
	Mail             string              `xml:"mail"`
	Password         string              `xml:"password,omitempty"`
	AuthSourceID     int                 `xml:"auth_source_id,omitempty"`
	MustChangePasswd bool                `xml:"must_change_passwd,omitempty"`
	CustomFields     customfields.Fields `xml:"custom_fields,omitempty"`
}

// UpdateRequest is the XML payload for updating a user.
type UpdateRequest struct {
	XMLName      xml.Name            `xml:"user"`
	FirstName    string              `xml:"firstname,omitempty"`
	LastName     string              `xml:"lastname,omitempty"`
	Mail         string              `xml:"mail,omitempty"`
	Password     string              `xml:"password,omitempty"`
	CustomFields customfields.Fields `xml:"custom_fields,omitempty"`
}

func (req *CreateRequest) validate() error {
	if req.Login == "" {
		return errors.New("'login' is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return errors.New("'firstname' and 'lastname' are required")
	}
	if req.Mail == "" {
		return errors.New("'mail' is required")
	}
	return nil
}

// Client represents the users API client.
type Client struct {
	restyCli *resty.Client
}

// NewClient creates a new users API client.
func NewClient(cli *resty.Client) *Client {
	return &Client{restyCli: cli}
}

// List retrieves one page of users. Requires admin privileges.
func (c *Client) List(ctx context.Context, params ListParams) (*ListUsers, error) {
	var listResponse ListUsers
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&listResponse).
		SetQueryString(params.ToQueryString()).
		Get("/users.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("list users failed with status code %d", rsp.StatusCode())
	}
	return &listResponse, nil
}

// Get retrieves a specific user by ID.
func (c *Client) Get(ctx context.Context, userID int) (*User, error) {
	if userID <= 0 {
		return nil, errors.New("'userID' is required")
	}

	var result struct {
		User User `json:"user"`
	}
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&result).
		SetPathParam("userID", strconv.Itoa(userID)).
		Get("/users/{userID}.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("get user failed with status code %d", rsp.StatusCode())
	}
	return &result.User, nil
}

// Current retrieves the account of the authenticated user.
func (c *Client) Current(ctx context.Context) (*User, error) {
	var result struct {
		User User `json:"user"`
	}
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/users/current.json")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("get current user failed with status code %d", rsp.StatusCode())
	}
	return &result.User, nil
}

// Create creates a new user from an XML payload. Requires admin privileges.
func (c *Client) Create(ctx context.Context, createReq *CreateRequest) (*User, error) {
	if err := createReq.validate(); err != nil {
		return nil, err
	}

	var createdUser User
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(createReq).
		SetResult(&createdUser).
		Post("/users.xml")
	if err != nil {
		return nil, err
	}

	if rsp.IsError() {
		return nil, fmt.Errorf("failed to create user: %s, got status code: %d",
			rsp.String(), rsp.StatusCode())
	}
	return &createdUser, nil
}

// Update updates a user by ID. Requires admin privileges.
func (c *Client) Update(ctx context.Context, userID int, updateReq *UpdateRequest) error {
	if userID <= 0 {
		return errors.New("'userID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(updateReq).
		SetPathParam("userID", strconv.Itoa(userID)).
		Put("/users/{userID}.xml")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("failed to update user, got status code: %d", rsp.StatusCode())
	}
	return nil
}

// Delete deletes a user by ID. Requires admin privileges.
func (c *Client) Delete(ctx context.Context, userID int) error {
	if userID <= 0 {
		return errors.New("'userID' is required")
	}

	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetPathParam("userID", strconv.Itoa(userID)).
		Delete("/users/{userID}.json")
	if err != nil {
		return err
	}

	if rsp.IsError() {
		return fmt.Errorf("delete user failed with status code %d", rsp.StatusCode())
	}
	return nil
}
