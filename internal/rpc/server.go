package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
)

// Service is the task store as seen by the server
type Service interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, in models.NewTask) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Toggle(ctx context.Context, id int64) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

type Server struct {
	svc     Service
	log     *log.Logger
	handler http.Handler
}

func NewServer(svc Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{svc: svc, log: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST "+PathList, s.handleList)
	mux.HandleFunc("POST "+PathCreate, s.handleCreate)
	mux.HandleFunc("POST "+PathUpdate, s.handleUpdate)
	mux.HandleFunc("POST "+PathToggle, s.handleToggle)
	mux.HandleFunc("POST "+PathDelete, s.handleDelete)

	s.handler = WithRequestID(Logging(logger)(Recover(logger)(mux)))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.svc.Ping(ctx); err != nil {
		s.log.Warn("not ready", "err", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.List(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	task, err := s.svc.Create(r.Context(), req)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.log.Debug("task created", "id", task.ID, "rid", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.ID == nil {
		writeError(w, http.StatusBadRequest, ErrorDetail{Code: CodeBadRequest, Message: "id is required"})
		return
	}

	task, err := s.svc.Update(r.Context(), *req.ID, req.patch())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeID(w, r)
	if !ok {
		return
	}

	task, err := s.svc.Toggle(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.log.Debug("task deleted", "id", id, "rid", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, DeleteResponse{OK: true})
}

func decodeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req IDRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return 0, false
	}
	if req.ID == nil {
		writeError(w, http.StatusBadRequest, ErrorDetail{Code: CodeBadRequest, Message: "id is required"})
		return 0, false
	}
	return *req.ID, true
}

// writeStoreError maps the store error taxonomy onto status codes
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *store.ValidationError
	var nf *store.NotFoundError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ErrorDetail{Code: CodeValidation, Message: ve.Error(), Field: ve.Field})
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, ErrorDetail{Code: CodeNotFound, Message: nf.Error(), ID: nf.ID})
	default:
		s.log.Error("store failure", "err", err, "path", r.URL.Path, "rid", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, ErrorDetail{Code: CodeInternal, Message: "internal error"})
	}
}

// maxBodyBytes bounds request bodies; the largest valid request is a
// create or update with both text fields at their limits.
const maxBodyBytes = 16 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errors.New("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: multiple JSON values")
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorDetail{
			Code:    CodeBadRequest,
			Message: fmt.Sprintf("request body larger than %d bytes", tooLarge.Limit),
		})
		return
	}
	writeError(w, http.StatusBadRequest, ErrorDetail{Code: CodeBadRequest, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail ErrorDetail) {
	writeJSON(w, status, ErrorBody{Error: detail})
}
