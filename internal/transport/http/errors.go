package http

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/transport/http/dto"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPoolNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrPoolExists):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidAuthority):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrPoolLocked),
		errors.Is(err, apperrors.ErrPoolUnlocked),
		errors.Is(err, apperrors.ErrSlippageExceeded),
		errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrCurve),
		errors.Is(err, apperrors.ErrPrecision):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrReadFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.Error("internal error", zap.Error(err))
		msg = "internal error"
	}
	s.writeJSON(w, code, dto.ErrorResponse{Error: msg})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, statusOf(err), err)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response write error", zap.Error(err))
	}
}
