package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader carries the session identifier that scopes carts and
// in-flight lookup supersession. The server issues an ID when the header is
// absent and echoes it back on every response.
const SessionHeader = "X-Session-ID"

func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = uuid.New().String()
	}
	w.Header().Set(SessionHeader, id)
	return id
}
