package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Content     string             `json:"content" bson:"content"`
	UserID      primitive.ObjectID `json:"userId" bson:"user"`
	User        *UserSummary       `json:"user" bson:"author,omitempty"`
	ItineraryID primitive.ObjectID `json:"itinerary" bson:"itinerary"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CommentInput struct {
	Content     string `json:"content" validate:"required"`
	ItineraryID string `json:"itineraryId" validate:"required"`
	UserID      string `json:"userId"`
}

type CommentUpdate struct {
	Content string `json:"content" validate:"required"`
}
