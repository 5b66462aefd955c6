package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultProfileImage = "https://images.unsplash.com/photo-1494790108377-be9c29b29330?ixlib=rb-1.2.1&auto=format&fit=crop&w=256&q=80"
	DefaultBio          = "Travel enthusiast"
)

type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password"`
	ProfileImage string             `json:"profileImage" bson:"profileImage"`
	Bio          string             `json:"bio" bson:"bio"`
	Followers    int                `json:"followers" bson:"followers"`
	Following    int                `json:"following" bson:"following"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the expanded form of a user reference. List views carry only
// name and profileImage; the itinerary detail view adds the profile fields.
type UserSummary struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	ProfileImage string             `json:"profileImage" bson:"profileImage"`
	Bio          string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Followers    *int               `json:"followers,omitempty" bson:"followers,omitempty"`
	Following    *int               `json:"following,omitempty" bson:"following,omitempty"`
}

// Summary returns the name/profileImage view of u
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, ProfileImage: u.ProfileImage}
}

// Profile returns the full public view of u
func (u *User) Profile() *UserSummary {
	followers, following := u.Followers, u.Following
	return &UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		Followers:    &followers,
		Following:    &following,
	}
}

type RegisterInput struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,maxbytes=72"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserPatch follows the same omitted-vs-present rule as ItineraryPatch
type UserPatch struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
	Password     *string `json:"password" validate:"omitempty,maxbytes=72"`
}

// Apply copies supplied fields onto u. Password must already be hashed.
func (p UserPatch) Apply(u *User, now time.Time) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.ProfileImage != nil {
		u.ProfileImage = *p.ProfileImage
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	u.UpdatedAt = now
}
