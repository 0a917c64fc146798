// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CrawlHandler triggers crawl passes on demand.
type CrawlHandler struct {
	deps Dependencies
}

// NewCrawlHandler creates a new crawl trigger handler.
func NewCrawlHandler(deps Dependencies) *CrawlHandler {
	return &CrawlHandler{deps: deps}
}

// HandleTestCrawl handles GET /test-crawl requests. The pass runs
// synchronously and its summary is returned as JSON, so the caller
// sees exactly what was discovered and sent.
func (h *CrawlHandler) HandleTestCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	sum, err := h.deps.RunPass(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "crawl_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
