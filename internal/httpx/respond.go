package httpx

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/champomix/champomix-api/internal/logger"
	"github.com/champomix/champomix-api/internal/shop"
	"github.com/champomix/champomix-api/internal/validate"
)

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, message{Message: msg})
}

// writeError maps the error taxonomy to a status code. Unknown errors are
// logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
	case errors.Is(err, shop.ErrNotFound), errors.Is(err, shop.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		logger.FromContext(r.Context()).WithError(err).Error("request failed")
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
