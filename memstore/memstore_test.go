package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/db"
	"travelbuddy/models"
)

func seedItinerary(t *testing.T, s *Store, owner primitive.ObjectID, location string) *models.Itinerary {
	t.Helper()
	it := models.NewItinerary(models.ItineraryInput{
		Title:          "Trip to " + location,
		Description:    "desc",
		Location:       location,
		TripLength:     "Week",
		ExperienceType: "Cultural",
		CoverImage:     "https://example.com/c.jpg",
	}, owner, time.Now().UTC())
	if err := s.Itineraries.Create(context.Background(), it); err != nil {
		t.Fatalf("create itinerary: %v", err)
	}
	return it
}

func TestListJoinsOwnerOrNull(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Name: "Emma", Email: "emma@example.com", ProfileImage: "p.jpg", Bio: "hi"}
	if err := s.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	seedItinerary(t, s, u.ID, "Paris, France")
	orphan := seedItinerary(t, s, primitive.NewObjectID(), "Kyoto, Japan")

	list, err := s.Itineraries.List(ctx, models.ItineraryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 itineraries, got %d", len(list))
	}
	if list[0].User == nil || list[0].User.Name != "Emma" || list[0].User.Bio != "" {
		t.Fatalf("expected summary owner without bio, got %+v", list[0].User)
	}
	if list[1].User != nil {
		t.Fatalf("expected nil owner for missing user, got %+v", list[1].User)
	}

	detail, err := s.Itineraries.Get(ctx, list[0].ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.User.Bio != "hi" || detail.User.Followers == nil {
		t.Fatalf("expected profile owner on detail, got %+v", detail.User)
	}

	kyoto, _ := s.Itineraries.List(ctx, models.ItineraryFilter{Location: "kyoto"})
	if len(kyoto) != 1 || kyoto[0].ID != orphan.ID {
		t.Fatalf("expected only the Kyoto itinerary, got %v", kyoto)
	}
}

func TestAdjustCommentsFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := seedItinerary(t, s, primitive.NewObjectID(), "Rome")

	if err := s.Itineraries.AdjustComments(ctx, it.ID, -1); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	got, _ := s.Itineraries.Get(ctx, it.ID.Hex())
	if got.Comments != 0 {
		t.Fatalf("expected 0 comments, got %d", got.Comments)
	}

	if err := s.Itineraries.AdjustComments(ctx, primitive.NewObjectID(), 1); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound incrementing a missing itinerary, got %v", err)
	}
	if err := s.Itineraries.AdjustComments(ctx, primitive.NewObjectID(), -1); err != nil {
		t.Fatalf("decrementing a missing itinerary should be a no-op, got %v", err)
	}
}

func TestCommentsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	itin := primitive.NewObjectID()
	now := time.Now().UTC()
	for i, content := range []string{"first", "second", "third"} {
		c := &models.Comment{Content: content, ItineraryID: itin, UserID: primitive.NewObjectID(), CreatedAt: now.Add(time.Duration(i) * time.Second)}
		if err := s.Comments.Create(ctx, c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}
	list, err := s.Comments.ListByItinerary(ctx, itin.Hex())
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(list) != 3 || list[0].Content != "third" || list[2].Content != "first" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Users.Create(ctx, &models.User{Name: "A", Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.Users.Create(ctx, &models.User{Name: "B", Email: "a@example.com"})
	if !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := seedItinerary(t, s, primitive.NewObjectID(), "Lisbon")
	got, _ := s.Itineraries.Get(ctx, it.ID.Hex())
	got.Images = append(got.Images, "mutated")
	again, _ := s.Itineraries.Get(ctx, it.ID.Hex())
	if len(again.Images) != 0 {
		t.Fatalf("stored itinerary was mutated through a read: %v", again.Images)
	}
}
