// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// RootHandler answers the readiness probe.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests with a minimal liveness document.
// Unknown paths under / fall through here and are rejected.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "shownews-crawler",
	})
}
