package handlers

import (
	"net/http"
	"strconv"

	"github.com/fatitalo/quickfeedback/web"
)

// WidgetHandler serves the embeddable widget script
type WidgetHandler struct{}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler() *WidgetHandler {
	return &WidgetHandler{}
}

// Script serves widget.js. Customer pages load it directly, so it is
// cacheable and carries no per-request state.
func (h *WidgetHandler) Script(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(web.WidgetJS)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(web.WidgetJS)
}
