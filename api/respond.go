package api

import (
	"encoding/json"
	"net/http"

	"chat-hub/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps domain sentinels onto HTTP statuses. The sentinel's
// text is the client-facing message; wrapped details stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	writeMessage(w, errors.MapToHTTPStatus(err), err.Error())
}
