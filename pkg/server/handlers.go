package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"webviz-hq/layoutd/pkg/layout/ast"
	"webviz-hq/layoutd/pkg/server/types"
	"webviz-hq/layoutd/pkg/store"
	"webviz-hq/layoutd/pkg/telemetry/logging"
	"webviz-hq/layoutd/pkg/worker"
)

// handlePutDocument parses the request body as the new text of a document,
// persists it and returns the parse result. A failed save is reported after
// the new parse is already being served.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	id, ctx, ok := s.documentID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.Server.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			types.WriteError(w, types.NewErrorResponse(types.ErrorTypeRequestTooLarge,
				fmt.Sprintf("document exceeds %d bytes", maxErr.Limit)))
			return
		}
		types.WriteError(w, types.NewInvalidRequestError("failed to read request body"))
		return
	}

	doc, err := s.documents.getOrCreate(id)
	if err != nil {
		if errors.Is(err, errTooManyDocuments) {
			types.WriteError(w, types.NewErrorResponse(types.ErrorTypeTooManyDocuments,
				fmt.Sprintf("at most %d documents may be open", s.config.Server.MaxDocuments)))
			return
		}
		s.writeInternalError(ctx, w, "failed to open document", err)
		return
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	// Once queued the parse replaces the worker's document, so it is not
	// abandoned on timeout and text and result always follow the worker.
	text := string(body)
	resp, err := doc.worker.Do(context.WithoutCancel(ctx), worker.ParseRequest(text))
	if err != nil {
		s.writeWorkerError(ctx, w, err)
		return
	}

	now := time.Now()
	doc.text, doc.result, doc.updatedAt = text, resp, now

	if err := s.store.Save(ctx, &store.Document{ID: id, Text: text, UpdatedAt: now}); err != nil {
		s.writeInternalError(ctx, w, "document parsed but not persisted", err)
		return
	}

	s.logger.InfoContext(ctx, "document updated",
		"bytes", len(text),
		"objects", len(resp.Objects),
	)
	types.WriteJSON(w, http.StatusOK, documentResponse(id, resp, now))
}

// handleGetDocument returns the last parse result of a document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.documentID(w, r)
	if !ok {
		return
	}

	doc, found := s.documents.get(id)
	if !found {
		writeDocumentNotFound(w, id)
		return
	}

	_, result, updatedAt := doc.snapshot()
	types.WriteJSON(w, http.StatusOK, documentResponse(id, result, updatedAt))
}

// handleListDocuments lists the open documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	list := types.DocumentList{Documents: []types.DocumentSummary{}}
	for _, doc := range s.documents.list() {
		text, result, updatedAt := doc.snapshot()
		list.Documents = append(list.Documents, types.DocumentSummary{
			ID:        doc.id,
			Title:     result.Title,
			Bytes:     len(text),
			UpdatedAt: updatedAt,
		})
	}
	types.WriteJSON(w, http.StatusOK, list)
}

// handleDeleteDocument closes a document and removes it from the store.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ctx, ok := s.documentID(w, r)
	if !ok {
		return
	}

	if !s.documents.remove(id) {
		writeDocumentNotFound(w, id)
		return
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.writeInternalError(ctx, w, "failed to delete document", err)
		return
	}

	s.logger.InfoContext(ctx, "document deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleClosest resolves ?start=N&end=M to the closest object and page.
// end defaults to start.
func (s *Server) handleClosest(w http.ResponseWriter, r *http.Request) {
	id, ctx, ok := s.documentID(w, r)
	if !ok {
		return
	}

	start, end, err := lineRange(r)
	if err != nil {
		types.WriteError(w, types.NewInvalidRequestError(err.Error()))
		return
	}

	doc, found := s.documents.get(id)
	if !found {
		writeDocumentNotFound(w, id)
		return
	}

	resp, err := doc.worker.Do(ctx, worker.ClosestObjectRequest(start, end))
	if err != nil {
		s.writeWorkerError(ctx, w, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, types.SelectionResponse{Object: resp.Object, Page: resp.Page})
}

// handleObjectByID returns the page with the given object id.
func (s *Server) handleObjectByID(w http.ResponseWriter, r *http.Request) {
	id, ctx, ok := s.documentID(w, r)
	if !ok {
		return
	}
	objectID := r.PathValue("objectID")

	doc, found := s.documents.get(id)
	if !found {
		writeDocumentNotFound(w, id)
		return
	}

	resp, err := doc.worker.Do(ctx, worker.ObjectByIDRequest(objectID))
	if err != nil {
		s.writeWorkerError(ctx, w, err)
		return
	}

	page, isPage := resp.Object.(*ast.LayoutObject)
	if !isPage || page == nil {
		types.WriteError(w, types.NewNotFoundError(fmt.Sprintf("page %q not found in document %q", objectID, id)))
		return
	}
	types.WriteJSON(w, http.StatusOK, types.ObjectResponse{Object: page})
}

// documentID validates the {id} path value and returns a context that
// carries it for logging.
func (s *Server) documentID(w http.ResponseWriter, r *http.Request) (string, context.Context, bool) {
	id := r.PathValue("id")
	if err := validateDocumentID(id); err != nil {
		types.WriteError(w, types.NewInvalidRequestError(err.Error()))
		return "", nil, false
	}
	return id, logging.WithDocumentID(r.Context(), id), true
}

func (s *Server) writeWorkerError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		types.WriteError(w, types.NewErrorResponse(types.ErrorTypeTimeout, "request timed out"))
	case errors.Is(err, context.Canceled), errors.Is(err, worker.ErrNotRunning):
		types.WriteError(w, types.NewErrorResponse(types.ErrorTypeServiceUnavailable, "server is shutting down"))
	default:
		s.writeInternalError(ctx, w, "worker request failed", err)
	}
}

func (s *Server) writeInternalError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	s.logger.ErrorContext(ctx, msg, "error", err)
	types.WriteError(w, types.NewServerError(msg))
}

func writeDocumentNotFound(w http.ResponseWriter, id string) {
	types.WriteError(w, types.NewNotFoundError(fmt.Sprintf("document %q not found", id)))
}

func documentResponse(id string, resp worker.Response, updatedAt time.Time) types.DocumentResponse {
	objects := resp.Objects
	if objects == nil {
		objects = []*ast.YamlObject{}
	}
	navigation := resp.Navigation
	if navigation == nil {
		navigation = []*ast.NavigationItem{}
	}
	return types.DocumentResponse{
		ID:         id,
		Title:      resp.Title,
		Objects:    objects,
		Navigation: navigation,
		UpdatedAt:  updatedAt,
	}
}

func lineRange(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	start, err := lineNumber(query.Get("start"), "start")
	if err != nil {
		return 0, 0, err
	}
	if query.Get("end") == "" {
		return start, start, nil
	}
	end, err := lineNumber(query.Get("end"), "end")
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func lineNumber(value, name string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("query parameter %q is required", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("query parameter %q must be a positive line number", name)
	}
	return n, nil
}
