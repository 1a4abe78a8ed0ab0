package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/s22625/planwatch/internal/model"
)

// ErrPlanNotFound is returned when the backend has no record of the
// requested plan. Callers use it to distinguish a missing target from
// a transient fetch failure.
var ErrPlanNotFound = errors.New("plan not found")

// DefaultServer is the backend address used when none is configured.
const DefaultServer = "http://localhost:18080"

const requestTimeout = 30 * time.Second

// Client talks to the executor backend. It is constructed by the
// caller and passed down explicitly; there is no shared default
// instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// ExecuteRequest describes an asynchronous task start.
type ExecuteRequest struct {
	ToolName          string         `json:"toolName"`
	ReplacementParams map[string]any `json:"replacementParams,omitempty"`
	ConversationID    string         `json:"conversationId,omitempty"`
	ServiceGroup      string         `json:"serviceGroup,omitempty"`
	UploadKey         string         `json:"uploadKey,omitempty"`
}

type executeResponse struct {
	PlanID  string `json:"planId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ExecuteAsync submits a task for asynchronous execution and returns
// the plan id to monitor. A conversation id is generated when the
// caller did not supply one, so follow-up starts can be grouped.
func (c *Client) ExecuteAsync(ctx context.Context, req ExecuteRequest) (string, error) {
	if req.ToolName == "" {
		return "", errors.New("tool name is required")
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	var resp executeResponse
	err := c.postJSON(ctx, "/api/executor/executeByToolNameAsync", req, &resp)
	if err != nil {
		return "", fmt.Errorf("starting task %q: %w", req.ToolName, err)
	}
	if resp.PlanID == "" {
		return "", fmt.Errorf("starting task %q: backend returned no plan id (%s)", req.ToolName, resp.Message)
	}
	return resp.PlanID, nil
}

// FetchSnapshot retrieves the current execution record for a plan.
// A 404 maps to ErrPlanNotFound; other failures are transient.
func (c *Client) FetchSnapshot(ctx context.Context, planID string) (*model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/executor/details/"+url.PathEscape(planID), nil)
	if err != nil {
		return nil, fmt.Errorf("creating details request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching details for %s: %w", planID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrPlanNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching details for %s: status %d", planID, resp.StatusCode)
	}

	var snap model.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding details for %s: %w", planID, err)
	}
	return &snap, nil
}

// TaskStatus holds the lightweight status response for a plan.
type TaskStatus struct {
	PlanID    string `json:"planId"`
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	Message   string `json:"message"`
}

// FetchTaskStatus retrieves the lightweight status for a plan.
func (c *Client) FetchTaskStatus(ctx context.Context, planID string) (*TaskStatus, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/executor/taskStatus/"+url.PathEscape(planID), nil)
	if err != nil {
		return nil, fmt.Errorf("creating status request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching status for %s: %w", planID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrPlanNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching status for %s: status %d", planID, resp.StatusCode)
	}
	var status TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding status for %s: %w", planID, err)
	}
	return &status, nil
}

// StopTask asks the backend to stop a running plan.
func (c *Client) StopTask(ctx context.Context, planID string) error {
	return c.postJSON(ctx, "/api/executor/stopTask/"+url.PathEscape(planID), nil, nil)
}

type uploadResponse struct {
	UploadKey string `json:"uploadKey"`
}

// UploadFile uploads a local file and returns the upload key to pass
// along with ExecuteAsync.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening upload file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("reading upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/file-upload/upload", &body)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("uploading %s: status %d", path, resp.StatusCode)
	}

	var upload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if upload.UploadKey == "" {
		return "", fmt.Errorf("uploading %s: backend returned no upload key", path)
	}
	return upload.UploadKey, nil
}

// ImportTemplate imports a workflow template file, replacing any
// template with the same id. The import endpoint expects a list, so a
// single template object is wrapped.
func (c *Client) ImportTemplate(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("parsing template %s: %w", path, err)
	}

	first := payload
	list, isList := payload.([]any)
	if isList {
		if len(list) == 0 {
			return fmt.Errorf("template %s is an empty list", path)
		}
		first = list[0]
	} else {
		list = []any{payload}
	}

	// Delete a pre-existing template with the same id so the import
	// lands on a clean slate. A failed delete is fine; the template
	// may simply not exist yet.
	if obj, ok := first.(map[string]any); ok {
		if id, ok := obj["planTemplateId"].(string); ok && id != "" {
			req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+"/api/plan-template/details/"+url.PathEscape(id), nil)
			if err == nil {
				if resp, err := c.httpClient.Do(req); err == nil {
					resp.Body.Close()
				}
			}
		}
	}

	return c.postJSON(ctx, "/api/plan-template/import-all", list, nil)
}

type fileContentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Content  string `json:"content"`
		IsBinary bool   `json:"isBinary"`
	} `json:"data"`
}

// FileContent downloads a file produced by a plan via the
// file-browser endpoint. Binary payloads arrive base64-encoded and
// are decoded before return.
func (c *Client) FileContent(ctx context.Context, planID, remotePath string) ([]byte, error) {
	u := c.baseURL + "/api/file-browser/content/" + url.PathEscape(planID) + "?path=" + url.QueryEscape(remotePath)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating file request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", remotePath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", remotePath, resp.StatusCode)
	}

	var fc fileContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decoding file response: %w", err)
	}
	if !fc.Success {
		return nil, fmt.Errorf("fetching %s: %s", remotePath, fc.Message)
	}
	if fc.Data.IsBinary {
		decoded, err := base64.StdEncoding.DecodeString(fc.Data.Content)
		if err != nil {
			return nil, fmt.Errorf("decoding binary content of %s: %w", remotePath, err)
		}
		return decoded, nil
	}
	return []byte(fc.Data.Content), nil
}

// postJSON posts a JSON body and optionally decodes a JSON response.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
