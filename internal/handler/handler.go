// Package handler wires the HTTP endpoints to the service layer.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dailymd-dev/dailymd/internal/logger"
	"github.com/dailymd-dev/dailymd/internal/service"
)

type Handler struct {
	users         service.UserService
	blogs         service.BlogService
	subscriptions service.SubscriptionService
	resets        service.ResetService
}

func New(users service.UserService, blogs service.BlogService, subscriptions service.SubscriptionService, resets service.ResetService) *Handler {
	return &Handler{users, blogs, subscriptions, resets}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
