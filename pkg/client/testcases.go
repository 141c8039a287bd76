package client

import (
	"context"
	"fmt"
	"net/http"
)

// APITestCase is a managed test case as stored on the platform. Content
// holds the case source in the engine's YAML dialect.
type APITestCase struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectID   int64  `json:"project_id"`
	ModuleID    int64  `json:"module_id,omitempty"`
	Content     string `json:"content"`
	Creator     string `json:"creator,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// TestCaseQuery filters ListTestCases.
type TestCaseQuery struct {
	ProjectID int64  `json:"project_id,omitempty"`
	ModuleID  int64  `json:"module_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
}

// TestCasePage is one page of test cases.
type TestCasePage struct {
	Total int64         `json:"total"`
	Items []APITestCase `json:"items"`
}

// ListTestCases returns cases matching the query.
func (c *Client) ListTestCases(ctx context.Context, q TestCaseQuery) (*TestCasePage, error) {
	var page TestCasePage
	if err := c.do(ctx, http.MethodPost, "/api/testcase/list", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTestCase fetches one case by id.
func (c *Client) GetTestCase(ctx context.Context, id int64) (*APITestCase, error) {
	var tc APITestCase
	path := fmt.Sprintf("/api/testcase/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

// CreateTestCase stores a new case and returns its id.
func (c *Client) CreateTestCase(ctx context.Context, tc *APITestCase) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/testcase", tc, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateTestCase replaces the stored case.
func (c *Client) UpdateTestCase(ctx context.Context, tc *APITestCase) error {
	path := fmt.Sprintf("/api/testcase/%d", tc.ID)
	return c.do(ctx, http.MethodPut, path, tc, nil)
}

// DeleteTestCase removes a case.
func (c *Client) DeleteTestCase(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/testcase/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ExecuteRequest triggers a server-side run of a stored case.
type ExecuteRequest struct {
	CaseID int64  `json:"case_id"`
	EnvID  int64  `json:"env_id,omitempty"`
	Env    string `json:"env,omitempty"`
}

// ExecuteResult references the server-side report.
type ExecuteResult struct {
	ReportID int64  `json:"report_id"`
	Status   string `json:"status"`
}

// ExecuteTestCase runs a stored case on the platform.
func (c *Client) ExecuteTestCase(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	var out ExecuteResult
	if err := c.do(ctx, http.MethodPost, "/api/testcase/execute", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// YAMLCheck is the server's verdict on a case source.
type YAMLCheck struct {
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ValidateYAML asks the platform to validate a case source without
// storing it.
func (c *Client) ValidateYAML(ctx context.Context, content string) (*YAMLCheck, error) {
	var out YAMLCheck
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/testcase/validate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportYAML uploads a case source as a new case in the given project.
func (c *Client) ImportYAML(ctx context.Context, projectID int64, name, content string) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	body := map[string]any{
		"project_id": projectID,
		"name":       name,
		"content":    content,
	}
	if err := c.do(ctx, http.MethodPost, "/api/testcase/import", body, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}
