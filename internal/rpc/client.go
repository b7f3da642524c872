package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
)

// Client calls a tickd server. Store failures come back as
// *store.ValidationError and *store.NotFoundError.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL. A nil httpClient
// uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.call(ctx, PathList, struct{}{}, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, in models.NewTask) (models.Task, error) {
	var task models.Task
	err := c.call(ctx, PathCreate, in, &task)
	return task, err
}

func (c *Client) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	req := UpdateRequest{
		ID:          &id,
		Title:       patch.Title,
		Description: patch.Description,
		Completed:   patch.Completed,
	}
	var task models.Task
	err := c.call(ctx, PathUpdate, req, &task)
	return task, err
}

func (c *Client) Toggle(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := c.call(ctx, PathToggle, IDRequest{ID: &id}, &task)
	return task, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	var resp DeleteResponse
	if err := c.call(ctx, PathDelete, IDRequest{ID: &id}, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return &Error{Status: http.StatusOK, Message: "delete not acknowledged"}
	}
	return nil
}

func (c *Client) call(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body ErrorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Error.Code == "" {
		return &Error{Status: status, Message: strings.TrimSpace(string(data))}
	}

	d := body.Error
	switch d.Code {
	case CodeValidation:
		return &store.ValidationError{Field: d.Field, Reason: strings.TrimPrefix(d.Message, d.Field+": ")}
	case CodeNotFound:
		return &store.NotFoundError{ID: d.ID}
	default:
		return &Error{Status: status, Code: d.Code, Message: d.Message}
	}
}
