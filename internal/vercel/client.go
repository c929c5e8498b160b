package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

var (
	ErrTokenMissing    = errors.New("VERCEL_TOKEN environment variable not set")
	ErrProjectNotFound = errors.New("vercel project not found")
)

type Client struct {
	baseURL    string
	token      string
	teamID     string
	httpClient *http.Client
}

// APIError is any non-2xx answer from the Vercel API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vercel api error: status %d: %s", e.Status, e.Message)
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReadyState string

const (
	ReadyStateQueued       ReadyState = "QUEUED"
	ReadyStateInitializing ReadyState = "INITIALIZING"
	ReadyStateBuilding     ReadyState = "BUILDING"
	ReadyStateReady        ReadyState = "READY"
	ReadyStateError        ReadyState = "ERROR"
	ReadyStateCanceled     ReadyState = "CANCELED"
)

type Deployment struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	ReadyState ReadyState `json:"readyState"`
}

type DeploymentFile struct {
	File string `json:"file"`
	Data string `json:"data"`
}

type envVariable struct {
	Key    string   `json:"key"`
	Value  string   `json:"value"`
	Type   string   `json:"type"`
	Target []string `json:"target"`
}

type createProjectRequest struct {
	Name                 string        `json:"name"`
	Framework            string        `json:"framework"`
	BuildCommand         string        `json:"buildCommand"`
	DevCommand           string        `json:"devCommand"`
	InstallCommand       string        `json:"installCommand"`
	EnvironmentVariables []envVariable `json:"environmentVariables"`
}

type createDeploymentRequest struct {
	Name      string           `json:"name"`
	Project   string           `json:"project"`
	Files     []DeploymentFile `json:"files"`
	Target    string           `json:"target"`
	GitSource *struct{}        `json:"gitSource"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(baseURL, token, teamID string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		teamID:  teamID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API token is present.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

func (c *Client) GetProject(ctx context.Context, name string) (*Project, error) {
	var project Project
	err := c.do(ctx, http.MethodGet, "/v9/projects/"+url.PathEscape(name), nil, &project)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// CreateProject creates a Next.js project. envVars are registered as
// encrypted variables for both preview and production.
func (c *Client) CreateProject(ctx context.Context, name string, envVars map[string]string) (*Project, error) {
	keys := make([]string, 0, len(envVars))
	for k := range envVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := make([]envVariable, 0, len(keys))
	for _, k := range keys {
		vars = append(vars, envVariable{
			Key:    k,
			Value:  envVars[k],
			Type:   "encrypted",
			Target: []string{"preview", "production"},
		})
	}

	req := createProjectRequest{
		Name:                 name,
		Framework:            "nextjs",
		BuildCommand:         "npm run build",
		DevCommand:           "npm run dev",
		InstallCommand:       "npm install",
		EnvironmentVariables: vars,
	}

	var project Project
	if err := c.do(ctx, http.MethodPost, "/v10/projects", req, &project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (c *Client) CreateDeployment(ctx context.Context, name, projectID string, files []DeploymentFile) (*Deployment, error) {
	req := createDeploymentRequest{
		Name:    name,
		Project: projectID,
		Files:   files,
		Target:  "preview",
	}

	var deployment Deployment
	if err := c.do(ctx, http.MethodPost, "/v13/deployments", req, &deployment); err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}
	return &deployment, nil
}

func (c *Client) GetDeployment(ctx context.Context, deploymentID string) (*Deployment, error) {
	var deployment Deployment
	if err := c.do(ctx, http.MethodGet, "/v13/deployments/"+url.PathEscape(deploymentID), nil, &deployment); err != nil {
		return nil, fmt.Errorf("failed to check deployment status: %w", err)
	}
	return &deployment, nil
}

func (c *Client) AddDomain(ctx context.Context, projectID, domain string) error {
	body := map[string]string{"name": domain}
	return c.do(ctx, http.MethodPost, "/v10/projects/"+url.PathEscape(projectID)+"/domains", body, nil)
}

func (c *Client) VerifyDomain(ctx context.Context, projectID, domain string) (bool, error) {
	var result struct {
		Verified bool `json:"verified"`
	}
	path := fmt.Sprintf("/v9/projects/%s/domains/%s/verify", url.PathEscape(projectID), url.PathEscape(domain))
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return false, err
	}
	return result.Verified, nil
}

func (c *Client) GetDomainConfig(ctx context.Context, projectID, domain string) (map[string]interface{}, error) {
	config := map[string]interface{}{}
	path := fmt.Sprintf("/v9/projects/%s/domains/%s/config", url.PathEscape(projectID), url.PathEscape(domain))
	if err := c.do(ctx, http.MethodGet, path, nil, &config); err != nil {
		return nil, fmt.Errorf("failed to get domain config: %w", err)
	}
	return config, nil
}

func (c *Client) RemoveDomain(ctx context.Context, projectID, domain string) error {
	path := fmt.Sprintf("/v9/projects/%s/domains/%s", url.PathEscape(projectID), url.PathEscape(domain))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.teamID != "" {
		req.Header.Set("X-Vercel-Team-Id", c.teamID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return &APIError{Status: status, Message: parsed.Error.Message}
	}
	msg := http.StatusText(status)
	if msg == "" {
		msg = "unexpected status"
	}
	return &APIError{Status: status, Message: msg}
}
