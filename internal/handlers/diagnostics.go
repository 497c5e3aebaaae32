package handlers

import (
	"net/http"

	"treasuremap-backend/internal/middleware"
)

type operatorResponse struct {
	Operator string `json:"operator"`
	Backend  string `json:"backend"`
	Feed     bool   `json:"feed"`
}

// DiagnosticsHandler serves the operator-only endpoints.
type DiagnosticsHandler struct {
	backend     string
	feedEnabled bool
}

func NewDiagnosticsHandler(backend string, feedEnabled bool) *DiagnosticsHandler {
	return &DiagnosticsHandler{backend: backend, feedEnabled: feedEnabled}
}

// Me confirms an operator token and reports what the relay is wired to.
func (h *DiagnosticsHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, operatorResponse{
		Operator: middleware.GetOperator(r.Context()),
		Backend:  h.backend,
		Feed:     h.feedEnabled,
	})
}
