package client

import (
	"context"
	"fmt"
	"net/http"
)

// Project is a platform project.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Environment is a named execution environment of a project.
type Environment struct {
	ID        int64             `json:"id"`
	ProjectID int64             `json:"project_id"`
	Name      string            `json:"name"`
	BaseURL   string            `json:"base_url"`
	Variables map[string]string `json:"variables,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// Datasource is a named database connection of a project.
type Datasource struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Driver    string `json:"driver"`
	DSN       string `json:"dsn"`
}

// Keyword is a reusable step template.
type Keyword struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
}

// Report summarizes one server-side run.
type Report struct {
	ID        int64  `json:"id"`
	CaseID    int64  `json:"case_id"`
	CaseName  string `json:"case_name"`
	Status    string `json:"status"`
	Duration  int64  `json:"duration_ms"`
	CreatedAt string `json:"created_at"`
	Detail    string `json:"detail,omitempty"`
}

// Plan is a scheduled collection of cases.
type Plan struct {
	ID        int64   `json:"id"`
	ProjectID int64   `json:"project_id"`
	Name      string  `json:"name"`
	Cron      string  `json:"cron,omitempty"`
	CaseIDs   []int64 `json:"case_ids,omitempty"`
}

// ListProjects returns the projects visible to the current user.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.do(ctx, http.MethodGet, "/api/project/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEnvironments returns the environments of a project.
func (c *Client) ListEnvironments(ctx context.Context, projectID int64) ([]Environment, error) {
	var out []Environment
	path := fmt.Sprintf("/api/env/list?project_id=%d", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEnvironment fetches one environment by id.
func (c *Client) GetEnvironment(ctx context.Context, id int64) (*Environment, error) {
	var out Environment
	path := fmt.Sprintf("/api/env/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDatasources returns the datasources of a project.
func (c *Client) ListDatasources(ctx context.Context, projectID int64) ([]Datasource, error) {
	var out []Datasource
	path := fmt.Sprintf("/api/datasource/list?project_id=%d", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListKeywords returns the reusable keywords of a project.
func (c *Client) ListKeywords(ctx context.Context, projectID int64) ([]Keyword, error) {
	var out []Keyword
	path := fmt.Sprintf("/api/keyword/list?project_id=%d", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListReports returns recent server-side run reports for a case. Pass
// caseID 0 for all cases.
func (c *Client) ListReports(ctx context.Context, caseID int64, limit int) ([]Report, error) {
	var out []Report
	path := fmt.Sprintf("/api/report/list?case_id=%d&limit=%d", caseID, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReport fetches one report with its detail payload.
func (c *Client) GetReport(ctx context.Context, id int64) (*Report, error) {
	var out Report
	path := fmt.Sprintf("/api/report/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPlans returns the test plans of a project.
func (c *Client) ListPlans(ctx context.Context, projectID int64) ([]Plan, error) {
	var out []Plan
	path := fmt.Sprintf("/api/plan/list?project_id=%d", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
