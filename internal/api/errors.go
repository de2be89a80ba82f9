package api

import (
	"encoding/json"
	"net/http"
)

// errorBody is the error response shape homeservers expect:
//
//	{"error": {"msg": "No devices in notification"}}
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Msg string `json:"msg"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Msg: msg}})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusUnauthorized, msg)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusInternalServerError, msg)
}
