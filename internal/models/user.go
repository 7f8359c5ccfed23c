package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account in LinguaLink.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName         string               `bson:"full_name" json:"fullName"`
	Email            string               `bson:"email" json:"email"`
	HashedPassword   string               `bson:"hashed_password" json:"-"`
	Bio              string               `bson:"bio" json:"bio"`
	ProfilePic       string               `bson:"profile_pic" json:"profilePic"`
	NativeLanguage   string               `bson:"native_language" json:"nativeLanguage"`
	LearningLanguage string               `bson:"learning_language" json:"learningLanguage"`
	Location         string               `bson:"location" json:"location"`
	IsOnboarded      bool                 `bson:"is_onboarded" json:"isOnboarded"`
	Friends          []primitive.ObjectID `bson:"friends,omitempty" json:"friends,omitempty"`
	CreatedAt        time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updatedAt"`
}

// PublicUser is the profile projection exposed to other users
// (friend lists, recommendations, request feeds).
type PublicUser struct {
	ID               primitive.ObjectID `json:"id"`
	FullName         string             `json:"fullName"`
	ProfilePic       string             `json:"profilePic"`
	Bio              string             `json:"bio"`
	NativeLanguage   string             `json:"nativeLanguage"`
	LearningLanguage string             `json:"learningLanguage"`
	Location         string             `json:"location"`
}

// Public returns the shareable projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePic:       u.ProfilePic,
		Bio:              u.Bio,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		Location:         u.Location,
	}
}

// HasFriend reports whether the given user is in the friend set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, friendID := range u.Friends {
		if friendID == id {
			return true
		}
	}
	return false
}
