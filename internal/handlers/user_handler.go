package handlers

import (
	"net/http"

	"github.com/Zh4nibek/LinguaLink/internal/config"
	"github.com/Zh4nibek/LinguaLink/internal/services"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"github.com/Zh4nibek/LinguaLink/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler manages HTTP endpoints for recommendations, friend
// lists and the friend request lifecycle.
type UserHandler struct {
	Users   *services.UserService
	Friends *services.FriendService
	Config  *config.Config
}

// NewUserHandler initializes a new UserHandler.
func NewUserHandler(users *services.UserService, friends *services.FriendService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Users:   users,
		Friends: friends,
		Config:  cfg,
	}
}

// GetRecommendedUsersHandler lists onboarded users the caller is not
// friends with yet.
func (h *UserHandler) GetRecommendedUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	users, err := h.Users.GetRecommendedUsers(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch recommended users")
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// GetMyFriendsHandler returns the caller's friends.
func (h *UserHandler) GetMyFriendsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	friends, err := h.Users.GetFriends(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Errorf("Failed to fetch friends for user %s", claims.UserID)
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, friends)
}

// SearchUsersHandler finds users by name or email.
func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	users, err := h.Users.SearchUsers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// SendFriendRequestHandler allows a user to send a friend request.
func (h *UserHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid user ID"), h.Config.IsProduction())
		return
	}

	senderID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	request, err := h.Friends.SendRequest(r.Context(), senderID, recipientID)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to send friend request from %s", claims.UserID)
		writeError(w, err, h.Config.IsProduction())
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", claims.UserID, recipientID.Hex())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Friend request sent",
		"friendRequest": request,
	})
}

// AcceptFriendRequestHandler lets the recipient accept a pending
// request.
func (h *UserHandler) AcceptFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid request ID"), h.Config.IsProduction())
		return
	}

	actorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	if err := h.Friends.AcceptRequest(r.Context(), requestID, actorID); err != nil {
		logger.Log.WithError(err).Warnf("Failed to accept friend request %s", requestID.Hex())
		writeError(w, err, h.Config.IsProduction())
		return
	}

	logger.Log.Infof("User %s accepted friend request %s", claims.UserID, requestID.Hex())
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Friend request accepted",
	})
}

// GetFriendRequestsHandler returns incoming pending requests plus the
// accepted-request notification feed.
func (h *UserHandler) GetFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	feed, err := h.Friends.GetRequests(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch friend requests")
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, feed)
}

// GetOutgoingFriendRequestsHandler returns the caller's pending
// outgoing requests.
func (h *UserHandler) GetOutgoingFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	outgoing, err := h.Friends.GetOutgoingRequests(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch outgoing friend requests")
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"outgoingRequests": outgoing,
	})
}
