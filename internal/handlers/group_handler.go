package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Zh4nibek/LinguaLink/internal/config"
	"github.com/Zh4nibek/LinguaLink/internal/services"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"github.com/Zh4nibek/LinguaLink/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupHandler manages HTTP endpoints for groups and their members.
type GroupHandler struct {
	Service *services.GroupService
	Config  *config.Config
}

// NewGroupHandler initializes a new GroupHandler.
func NewGroupHandler(service *services.GroupService, cfg *config.Config) *GroupHandler {
	return &GroupHandler{
		Service: service,
		Config:  cfg,
	}
}

// actor resolves the authenticated user's ObjectID or writes a 401.
func (h *GroupHandler) actor(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return primitive.NilObjectID, false
	}

	actorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return primitive.NilObjectID, false
	}
	return actorID, true
}

// CreateGroupHandler creates a group owned by the caller.
func (h *GroupHandler) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		MemberIDs   []string `json:"memberIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid request payload"), h.Config.IsProduction())
		return
	}
	defer r.Body.Close()

	group, err := h.Service.CreateGroup(r.Context(), actorID, body.Name, body.Description, body.MemberIDs)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to create group for user %s", actorID.Hex())
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Group created successfully",
		"group":   group,
	})
}

// GetMyGroupsHandler lists every group the caller belongs to.
func (h *GroupHandler) GetMyGroupsHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	groups, err := h.Service.GetMyGroups(r.Context(), actorID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch groups")
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

// GetGroupHandler fetches one group; members only.
func (h *GroupHandler) GetGroupHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid group ID"), h.Config.IsProduction())
		return
	}

	group, err := h.Service.GetGroup(r.Context(), groupID, actorID)
	if err != nil {
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// UpdateGroupHandler updates group display fields; admin only.
func (h *GroupHandler) UpdateGroupHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid group ID"), h.Config.IsProduction())
		return
	}

	var update services.GroupUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid request payload"), h.Config.IsProduction())
		return
	}
	defer r.Body.Close()

	group, err := h.Service.UpdateGroup(r.Context(), groupID, actorID, update)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to update group %s", groupID.Hex())
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Group updated successfully",
		"group":   group,
	})
}

// AddMembersHandler adds friends of the admin to the group.
func (h *GroupHandler) AddMembersHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid group ID"), h.Config.IsProduction())
		return
	}

	var body struct {
		MemberIDs []string `json:"memberIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid request payload"), h.Config.IsProduction())
		return
	}
	defer r.Body.Close()

	group, err := h.Service.AddMembers(r.Context(), groupID, actorID, body.MemberIDs)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to add members to group %s", groupID.Hex())
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Members added successfully",
		"group":   group,
	})
}

// RemoveMemberHandler removes a member; admin, or the member leaving.
func (h *GroupHandler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	groupID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid group ID"), h.Config.IsProduction())
		return
	}

	memberID, err := primitive.ObjectIDFromHex(vars["memberId"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid member ID"), h.Config.IsProduction())
		return
	}

	group, err := h.Service.RemoveMember(r.Context(), groupID, actorID, memberID)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to remove member %s from group %s", memberID.Hex(), groupID.Hex())
		writeError(w, err, h.Config.IsProduction())
		return
	}

	message := "Member removed successfully"
	if actorID == memberID {
		message = "You left the group"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
		"group":   group,
	})
}

// DeleteGroupHandler deletes a group; admin only.
func (h *GroupHandler) DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "invalid group ID"), h.Config.IsProduction())
		return
	}

	if err := h.Service.DeleteGroup(r.Context(), groupID, actorID); err != nil {
		logger.Log.WithError(err).Warnf("Failed to delete group %s", groupID.Hex())
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Group deleted successfully",
	})
}
