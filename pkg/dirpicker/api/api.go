// Package api serves directory listings and activity events over HTTP for
// browser hosts of the directory selector.
package api

import (
	"encoding/json"
	stdliberrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odvcencio/chooser/pkg/dirpicker"
	apperrors "github.com/odvcencio/chooser/pkg/errors"
	"github.com/odvcencio/chooser/pkg/logging"
	"github.com/odvcencio/chooser/pkg/telemetry"
)

// Server exposes a Lister and an event hub.
type Server struct {
	lister dirpicker.Lister
	hub    *telemetry.Hub
	logger *logging.Logger
}

// NewServer creates the API. hub and logger may be nil.
func NewServer(lister dirpicker.Lister, hub *telemetry.Hub, logger *logging.Logger) *Server {
	return &Server{lister: lister, hub: hub, logger: logger}
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/filesystem/browse", s.handleBrowse)
		if s.hub != nil {
			r.Get("/events", s.handleEvents)
		}
	})
}

// Handler returns a router serving only the API.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	s.Mount(router)
	return router
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	listing, err := s.lister.Browse(r.Context(), path)
	if err != nil {
		status := apperrors.HTTPStatus(apperrors.GetCode(err))
		s.logger.Warn(logging.CategoryServer, "browse_failed", "browse request failed",
			map[string]any{"path": path, "status": status})
		respondError(w, status, err)
		return
	}
	if listing.Directories == nil {
		listing.Directories = []dirpicker.Directory{}
	}
	respondJSON(w, browseResponse{
		CurrentPath: listing.CurrentPath,
		ParentPath:  parentOrNil(listing),
		Directories: listing.Directories,
	})
}

// browseResponse encodes a missing parent as null.
type browseResponse struct {
	CurrentPath string                `json:"currentPath"`
	ParentPath  *string               `json:"parentPath"`
	Directories []dirpicker.Directory `json:"directories"`
}

func parentOrNil(l dirpicker.Listing) *string {
	if !l.HasParent() {
		return nil
	}
	p := l.ParentPath
	return &p
}

// handleEvents streams hub events as newline-delimited JSON until the
// client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError,
			apperrors.New(apperrors.ErrCodeInternal, "streaming unsupported"))
		return
	}
	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := enc.Encode(ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

func respondJSON(w http.ResponseWriter, payload any) {
	setCommonHeaders(w)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error       string   `json:"error"`
	Status      int      `json:"status"`
	Code        string   `json:"code,omitempty"`
	Message     string   `json:"message"`
	Remediation []string `json:"remediation,omitempty"`
	Timestamp   string   `json:"timestamp"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	setCommonHeaders(w)
	w.WriteHeader(status)

	resp := errorResponse{
		Status:    status,
		Message:   http.StatusText(status),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	resp.Error = resp.Message

	var appErr *apperrors.Error
	if stdliberrors.As(err, &appErr) {
		resp.Code = string(appErr.Code)
		if appErr.UserMessage != "" {
			resp.Message = appErr.UserMessage
		} else if appErr.Message != "" {
			resp.Message = appErr.Message
		}
		resp.Remediation = append([]string(nil), appErr.Remediation...)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
