package memstore

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/db"
	"travelbuddy/models"
)

type CommentStore struct {
	d *data
}

func (s *CommentStore) view(c storedComment) models.Comment {
	out := c.Comment
	out.User = s.d.summary(c.UserID, false)
	return out
}

func (s *CommentStore) Create(_ context.Context, c *models.Comment) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, ok := s.d.comments[c.ID]; ok {
		return db.ErrDuplicate
	}
	s.d.seq++
	stored := *c
	stored.User = nil
	s.d.comments[c.ID] = storedComment{Comment: stored, seq: s.d.seq}
	return nil
}

func (s *CommentStore) ListByItinerary(_ context.Context, itineraryID string) ([]models.Comment, error) {
	oid, err := db.ParseID(itineraryID)
	if err != nil {
		return nil, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	var found []storedComment
	for _, c := range s.d.comments {
		if c.ItineraryID == oid {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		}
		return found[i].seq > found[j].seq
	})

	out := make([]models.Comment, 0, len(found))
	for _, c := range found {
		out = append(out, s.view(c))
	}
	return out, nil
}

func (s *CommentStore) Get(_ context.Context, id string) (*models.Comment, error) {
	oid, err := db.ParseID(id)
	if err != nil {
		return nil, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	c, ok := s.d.comments[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := s.view(c)
	return &out, nil
}

func (s *CommentStore) UpdateContent(_ context.Context, id, content string) error {
	oid, err := db.ParseID(id)
	if err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	c, ok := s.d.comments[oid]
	if !ok {
		return db.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	s.d.comments[oid] = c
	return nil
}

func (s *CommentStore) Delete(_ context.Context, id string) (*models.Comment, error) {
	oid, err := db.ParseID(id)
	if err != nil {
		return nil, err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	c, ok := s.d.comments[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	delete(s.d.comments, oid)
	out := c.Comment
	return &out, nil
}
