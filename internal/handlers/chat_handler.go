package handlers

import (
	"net/http"

	"github.com/Zh4nibek/LinguaLink/internal/config"
	"github.com/Zh4nibek/LinguaLink/internal/services"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"github.com/Zh4nibek/LinguaLink/pkg/middleware"
)

// ChatHandler exposes the chat provider token endpoint.
type ChatHandler struct {
	Service *services.ChatService
	Config  *config.Config
}

func NewChatHandler(service *services.ChatService, cfg *config.Config) *ChatHandler {
	return &ChatHandler{
		Service: service,
		Config:  cfg,
	}
}

// GetTokenHandler issues the provider identity token for the caller.
// Unlike profile sync, a provider failure here is fatal: without a
// token the client cannot connect at all.
func (h *ChatHandler) GetTokenHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	token, err := h.Service.GetToken(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Errorf("Failed to generate chat token for user %s", claims.UserID)
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
