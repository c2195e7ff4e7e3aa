package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/gasket/pkg/errors"
)

// StatusCode maps an error to its HTTP status.
//
//	INVALID_* (except INVALID_SEED)                   400
//	DEGENERATE_INPUT, NO_UNIQUE_SOLUTION, INVALID_SEED 422
//	NOT_FOUND                                         404
//	UNSUPPORTED                                       501
//	deadline exceeded                                 504
//	anything else                                     500
func StatusCode(err error) int {
	switch {
	case errors.IsDegenerate(err):
		return http.StatusUnprocessableEntity
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: msg})
}
