package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"treegrid/window"
)

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	var req window.Request

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, window.ErrorBody{
			Error: fmt.Sprintf("unable to decode request: %v", err),
			Kind:  window.KindBadRequest,
		})
		return
	}

	if err := delay(r.Context(), s.cfg.ResponseDelay); err != nil {
		// client may be gone already, answer anyway so nobody sees empty success
		s.writeError(w, http.StatusServiceUnavailable, window.NewErrorBody(fmt.Errorf("request abandoned: %w", err)))
		return
	}

	resp, err := s.r.Resolve(r.Context(), req)
	if err != nil {
		s.writeError(w, statusOf(err), window.NewErrorBody(err))
		return
	}

	w.Header().Set("ETag", s.etag)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("ETag", s.etag)
	s.writeJSON(w, http.StatusOK, s.r.Index().Stats())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, window.ErrUnknownGroup):
		return http.StatusNotFound
	case errors.Is(err, window.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, body window.ErrorBody) {
	s.log.Debug("Request failed", zap.Int("status", status), zap.String("kind", body.Kind), zap.String("error", body.Error))
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("Unable to write response", zap.Error(err))
	}
}
