// Package rpc exposes the task store over HTTP with JSON bodies and
// provides a typed client for it.
package rpc

import (
	"fmt"

	"github.com/tgienger/tick/internal/models"
)

// Operation paths
const (
	PathList   = "/rpc/list"
	PathCreate = "/rpc/create"
	PathUpdate = "/rpc/update"
	PathToggle = "/rpc/toggle"
	PathDelete = "/rpc/delete"
)

// Error codes carried in ErrorBody
const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeBadRequest = "bad_request"
	CodeInternal   = "internal"
)

type CreateRequest = models.NewTask

type UpdateRequest struct {
	ID          *int64  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (r UpdateRequest) patch() models.TaskPatch {
	return models.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// IDRequest is the body of toggle and delete
type IDRequest struct {
	ID *int64 `json:"id"`
}

type DeleteResponse struct {
	OK bool `json:"ok"`
}

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

// Error is returned by Client for failures that are not store errors
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("rpc: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("rpc: %s (%d): %s", e.Code, e.Status, e.Message)
}
