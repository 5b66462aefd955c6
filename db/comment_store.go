package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"travelbuddy/models"
)

type CommentStore struct {
	coll  *mongo.Collection
	users string
}

func NewCommentStore(coll *mongo.Collection) *CommentStore {
	return &CommentStore{coll: coll, users: usersName}
}

func (s *CommentStore) find(ctx context.Context, pipeline []bson.M) ([]models.Comment, error) {
	pipeline = append(pipeline, lookupUser(s.users, "user", "author", summaryFields)...)
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	author := c.User
	c.User = nil
	_, err := s.coll.InsertOne(ctx, c)
	c.User = author
	if err != nil {
		return fmt.Errorf("insert comment: %w", translate(err))
	}
	return nil
}

// ListByItinerary returns the itinerary's comments, newest first
func (s *CommentStore) ListByItinerary(ctx context.Context, itineraryID string) ([]models.Comment, error) {
	oid, err := ParseID(itineraryID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	out, err := s.find(ctx, []bson.M{
		{"$match": bson.M{"itinerary": oid}},
		{"$sort": bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", itineraryID, err)
	}
	return out, nil
}

func (s *CommentStore) Get(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	out, err := s.find(ctx, []bson.M{{"$match": bson.M{"_id": oid}}})
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (s *CommentStore) UpdateContent(ctx context.Context, id, content string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"content":   content,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update comment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the comment and returns what was stored
func (s *CommentStore) Delete(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	var c models.Comment
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("delete comment %s: %w", id, err)
	}
	return &c, nil
}
