package interfaces

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	// Encode first so a marshal failure doesn't leak a partial body
	// after the status line.
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	w.Write(encoded)
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  message,
		Status: status,
	})
}

func decodeJSONBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// sessionID extracts the opaque per-browser session identifier. There
// is no authentication behind it; it only scopes the liked set.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("x-session-id"); id != "" {
		return id
	}
	return "anonymous"
}
