package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Zh4nibek/LinguaLink/internal/config"
	"github.com/Zh4nibek/LinguaLink/internal/services"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	jwtutil "github.com/Zh4nibek/LinguaLink/pkg/jwt"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"github.com/Zh4nibek/LinguaLink/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles signup, login, logout and the authenticated
// user's own profile endpoints.
type AuthHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(service *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Config:  cfg,
	}
}

// SignupHandler handles user registration.
func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.WithError(err).Warn("Failed to decode signup request")
		writeError(w, apperr.New(apperr.KindValidation, "invalid request payload"), h.Config.IsProduction())
		return
	}
	defer r.Body.Close()

	user, err := h.Service.Signup(r.Context(), body.FullName, body.Email, body.Password)
	if err != nil {
		log.WithError(err).Warn("Signup failed")
		writeError(w, err, h.Config.IsProduction())
		return
	}

	token, err := h.issueSession(w, user.ID.Hex(), user.Email)
	if err != nil {
		writeError(w, err, h.Config.IsProduction())
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User signed up successfully")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// LoginHandler handles user login.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		writeError(w, apperr.New(apperr.KindValidation, "invalid request payload"), h.Config.IsProduction())
		return
	}
	defer r.Body.Close()

	user, err := h.Service.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		log.WithField("email", body.Email).WithError(err).Warn("Authentication failed")
		writeError(w, err, h.Config.IsProduction())
		return
	}

	token, err := h.issueSession(w, user.ID.Hex(), user.Email)
	if err != nil {
		writeError(w, err, h.Config.IsProduction())
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// LogoutHandler clears the session cookie.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie := h.sessionCookie("", -1)
	http.SetCookie(w, cookie)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logout successful",
	})
}

// MeHandler returns the authenticated user.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// OnboardingHandler completes the one-time profile setup.
func (h *AuthHandler) OnboardingHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	var data services.OnboardingData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.WithError(err).Warn("Failed to decode onboarding request")
		writeError(w, apperr.New(apperr.KindValidation, "invalid request payload"), h.Config.IsProduction())
		return
	}
	defer r.Body.Close()

	user, err := h.Service.Onboard(r.Context(), claims.UserID, data)
	if err != nil {
		log.WithField("userID", claims.UserID).WithError(err).Warn("Onboarding failed")
		writeError(w, err, h.Config.IsProduction())
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User onboarded")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UpdateProfileHandler applies a partial profile update.
func (h *AuthHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.New(apperr.KindUnauthorized, "unauthorized"), h.Config.IsProduction())
		return
	}

	var update services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.WithError(err).Warn("Failed to decode profile update request")
		writeError(w, apperr.New(apperr.KindValidation, "invalid request payload"), h.Config.IsProduction())
		return
	}
	defer r.Body.Close()

	user, err := h.Service.UpdateProfile(r.Context(), claims.UserID, update)
	if err != nil {
		writeError(w, err, h.Config.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, userID, email string) (string, error) {
	token, err := jwtutil.GenerateToken(userID, email, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to generate session token")
		return "", err
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.Config.TokenExpiry.Seconds())))
	return token, nil
}

// sessionCookie builds the jwt cookie. Production runs the frontend
// on a different origin, so cookies there must be Secure with
// SameSite=None; development keeps Lax.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.Config.IsProduction() {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     "jwt",
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: sameSite,
	}
}
