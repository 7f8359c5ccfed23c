package services

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/internal/stream"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the persistence surface the user service needs.
// *repository.UserRepository satisfies it; tests use an in-memory fake.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	GetRecommendedUsers(ctx context.Context, userID primitive.ObjectID, friendIDs []primitive.ObjectID) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

// ProfileUpdate carries the optional profile fields of a PUT
// /api/auth/profile call. Nil means "leave unchanged".
type ProfileUpdate struct {
	FullName         *string `json:"fullName"`
	Bio              *string `json:"bio"`
	ProfilePic       *string `json:"profilePic"`
	NativeLanguage   *string `json:"nativeLanguage"`
	LearningLanguage *string `json:"learningLanguage"`
	Location         *string `json:"location"`
}

// OnboardingData is the one-time profile completion payload. All
// fields are required.
type OnboardingData struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
}

// UserService encapsulates the business logic for user accounts and
// profile data. Profile changes are mirrored into the chat provider
// best-effort: a failed sync is logged and never fails the operation.
type UserService struct {
	repo UserStore
	chat stream.Client
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore, chat stream.Client) *UserService {
	return &UserService{
		repo: repo,
		chat: chat,
	}
}

// Signup registers a new user after validating the payload and
// hashing the password.
func (s *UserService) Signup(ctx context.Context, fullName, email, password string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(strings.ToLower(email))

	if fullName == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, "all fields are required")
	}
	if len(password) < 6 {
		return nil, apperr.New(apperr.KindValidation, "password must be at least 6 characters")
	}
	if !emailRegex.MatchString(email) {
		return nil, apperr.New(apperr.KindValidation, "invalid email format")
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %v", err)
	}
	if existing != nil {
		logrus.WithField("email", email).Warn("Signup with email already in use")
		return nil, apperr.New(apperr.KindConflict, "email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		FullName:       fullName,
		Email:          email,
		HashedPassword: string(hashedPwd),
		ProfilePic:     randomAvatarURL(),
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	s.syncToChat(ctx, created)

	logrus.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return created, nil
}

// Authenticate verifies the email and password and returns the user
// if credentials are valid.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, "all fields are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %v", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, apperr.New(apperr.KindUnauthorized, "invalid email or password")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid user ID")
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
	}
	return user, nil
}

// Onboard completes the one-time profile setup that unlocks the rest
// of the app.
func (s *UserService) Onboard(ctx context.Context, id string, data OnboardingData) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid user ID")
	}

	var missing []string
	if strings.TrimSpace(data.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(data.Bio) == "" {
		missing = append(missing, "bio")
	}
	if strings.TrimSpace(data.NativeLanguage) == "" {
		missing = append(missing, "nativeLanguage")
	}
	if strings.TrimSpace(data.LearningLanguage) == "" {
		missing = append(missing, "learningLanguage")
	}
	if strings.TrimSpace(data.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, apperr.Newf(apperr.KindValidation, "all fields are required, missing: %s", strings.Join(missing, ", "))
	}

	update := map[string]interface{}{
		"full_name":         strings.TrimSpace(data.FullName),
		"bio":               strings.TrimSpace(data.Bio),
		"native_language":   strings.TrimSpace(data.NativeLanguage),
		"learning_language": strings.TrimSpace(data.LearningLanguage),
		"location":          strings.TrimSpace(data.Location),
		"is_onboarded":      true,
	}

	user, err := s.repo.UpdateUser(ctx, objID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %v", err)
	}

	s.syncToChat(ctx, user)

	logrus.WithField("userID", user.ID.Hex()).Info("User onboarded successfully")
	return user, nil
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid user ID")
	}

	fields := map[string]interface{}{}
	if update.FullName != nil {
		if strings.TrimSpace(*update.FullName) == "" {
			return nil, apperr.New(apperr.KindValidation, "fullName cannot be empty")
		}
		fields["full_name"] = strings.TrimSpace(*update.FullName)
	}
	if update.Bio != nil {
		fields["bio"] = strings.TrimSpace(*update.Bio)
	}
	if update.ProfilePic != nil {
		fields["profile_pic"] = *update.ProfilePic
	}
	if update.NativeLanguage != nil {
		fields["native_language"] = strings.TrimSpace(*update.NativeLanguage)
	}
	if update.LearningLanguage != nil {
		fields["learning_language"] = strings.TrimSpace(*update.LearningLanguage)
	}
	if update.Location != nil {
		fields["location"] = strings.TrimSpace(*update.Location)
	}
	if len(fields) == 0 {
		return nil, apperr.New(apperr.KindValidation, "no profile fields to update")
	}

	user, err := s.repo.UpdateUser(ctx, objID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}

	s.syncToChat(ctx, user)

	return user, nil
}

// GetRecommendedUsers returns onboarded users the given user is not
// already friends with.
func (s *UserService) GetRecommendedUsers(ctx context.Context, id string) ([]models.PublicUser, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid user ID")
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
	}

	users, err := s.repo.GetRecommendedUsers(ctx, objID, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommended users: %v", err)
	}

	return toPublic(users), nil
}

// GetFriends returns the user's friends as public profiles.
func (s *UserService) GetFriends(ctx context.Context, id string) ([]models.PublicUser, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid user ID")
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
	}
	if len(user.Friends) == 0 {
		return []models.PublicUser{}, nil
	}

	friends, err := s.repo.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friends: %v", err)
	}

	return toPublic(friends), nil
}

// SearchUsers finds users matching the query by name or email.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.PublicUser, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.PublicUser{}, nil
	}

	users, err := s.repo.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}

	return toPublic(users), nil
}

// syncToChat mirrors a user's display identity into the chat
// provider. Failures are logged and swallowed; chat metadata catches
// up via the periodic sync job.
func (s *UserService) syncToChat(ctx context.Context, user *models.User) {
	if err := s.chat.UpsertUser(ctx, user.ID.Hex(), user.FullName, user.ProfilePic); err != nil {
		logrus.WithError(err).WithField("userID", user.ID.Hex()).Warn("Failed to sync user to chat provider")
	}
}

func toPublic(users []models.User) []models.PublicUser {
	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public
}

func randomAvatarURL() string {
	idx := rand.Intn(100) + 1
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", idx)
}
