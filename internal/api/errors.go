package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pixil98/go-gridworld/internal/game"
	"github.com/pixil98/go-gridworld/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

// badRequest is a problem with the request itself, reported before any
// world state is touched.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string {
	return e.msg
}

func newBadRequest(msg string) error {
	return &badRequest{msg: msg}
}

// statusFor maps an error onto the http status reported to the client.
func statusFor(err error) int {
	var br *badRequest
	var ue *game.UserError
	switch {
	case errors.As(err, &br), errors.As(err, &ue):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrPlayerNotFound), errors.Is(err, game.ErrBlocked):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logger := logging.GetLogger(r.Context()).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed")
	} else {
		logger.Debug("request rejected")
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
