package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/asydorov/sygnal/internal/notification"
)

// notifyResponse is the success body. Rejected is always present, even
// when empty, so homeservers can unconditionally iterate it.
type notifyResponse struct {
	Rejected []string `json:"rejected"`
}

// handleNotify processes a push notification from a homeserver.
//
// The envelope is {"notification": {...}}. Validation failures return 400
// with a message the homeserver operator can act on; a backend delivery
// failure returns 500 so the homeserver retries the whole notification.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With("request_id", requestID(r.Context()))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "Expecting json request body")
		return
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeBadRequest(w, "Expecting json request body")
		return
	}

	raw, ok := envelope["notification"]
	if !ok || !isJSONObject(raw) {
		msg := "Invalid notification: expecting object in 'notification' key"
		log.Warn(msg)
		writeBadRequest(w, msg)
		return
	}

	n, err := notification.Parse(raw)
	if err != nil {
		var verr *notification.ValidationError
		if errors.As(err, &verr) {
			log.Warn("invalid notification", "error", verr.Msg)
			writeBadRequest(w, verr.Msg)
			return
		}
		log.Warn("malformed notification", "error", err)
		writeBadRequest(w, "Expecting json request body")
		return
	}

	rejected, err := s.engine.Dispatch(r.Context(), n)
	if err != nil {
		log.Error("failed to send push", "error", err)
		writeInternalError(w, "Failed to send push")
		return
	}

	writeJSON(w, http.StatusOK, notifyResponse{Rejected: rejected})
}

// isJSONObject reports whether the raw value's first non-space byte opens
// a JSON object.
func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
