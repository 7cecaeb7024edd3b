package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}
