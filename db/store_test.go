package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"travelbuddy/models"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func updated(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestAdjustComments(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	mt.Run("increment reports a missing itinerary", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(updated(0))
		if err := store.AdjustComments(ctx, id, 1); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		if _, err := cmd.LookupErr("updates", "0", "q", "comments"); err == nil {
			t.Fatalf("increment must not carry the counter guard: %s", cmd)
		}
		if got := cmd.Lookup("updates", "0", "u", "$inc", "comments").AsInt64(); got != 1 {
			t.Fatalf("expected $inc of 1, got %d", got)
		}
	})

	mt.Run("increment on an existing itinerary", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(updated(1))
		if err := store.AdjustComments(ctx, id, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("decrement is guarded and tolerates a missing parent", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(updated(0))
		if err := store.AdjustComments(ctx, id, -1); err != nil {
			t.Fatalf("decrement on a missing itinerary should be a no-op, got %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("updates", "0", "q", "comments", "$gte").AsInt64(); got != 1 {
			t.Fatalf("expected comments >= 1 guard, got %d", got)
		}
		if got := cmd.Lookup("updates", "0", "q", "_id").ObjectID(); got != id {
			t.Fatalf("expected filter on %s, got %s", id.Hex(), got.Hex())
		}
		if got := cmd.Lookup("updates", "0", "u", "$inc", "comments").AsInt64(); got != -1 {
			t.Fatalf("expected $inc of -1, got %d", got)
		}
	})

	mt.Run("zero delta sends nothing", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		if err := store.AdjustComments(ctx, id, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			t.Fatalf("expected no command, got %s", evt.CommandName)
		}
	})
}

func TestItineraryGetExpandsOwner(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	itID, ownerID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("owner present", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: itID},
			{Key: "title", Value: "Kyoto"},
			{Key: "user", Value: ownerID},
			{Key: "comments", Value: int32(2)},
			{Key: "owner", Value: bson.D{
				{Key: "_id", Value: ownerID},
				{Key: "name", Value: "Emma Wilson"},
				{Key: "bio", Value: "Travel enthusiast"},
				{Key: "followers", Value: int32(0)},
				{Key: "following", Value: int32(0)},
			}},
		}))

		it, err := store.Get(ctx, itID.Hex())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if it.UserID != ownerID || it.User == nil || it.User.Name != "Emma Wilson" || it.User.Followers == nil {
			t.Fatalf("owner not expanded: %+v / %+v", it.UserID, it.User)
		}
		if it.Comments != 2 || it.Days == nil || it.Images == nil {
			t.Fatalf("unexpected document %+v", it)
		}

		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("pipeline", "0", "$match", "_id").ObjectID(); got != itID {
			t.Fatalf("expected match on %s, got %s", itID.Hex(), got.Hex())
		}
		if got := cmd.Lookup("pipeline", "1", "$lookup", "from").StringValue(); got != "users" {
			t.Fatalf("expected lookup from users, got %q", got)
		}
		if _, err := cmd.LookupErr("pipeline", "1", "$lookup", "pipeline", "1", "$project", "bio"); err != nil {
			t.Fatalf("detail should project the owner profile: %s", cmd)
		}
		if !cmd.Lookup("pipeline", "2", "$unwind", "preserveNullAndEmptyArrays").Boolean() {
			t.Fatalf("unwind must keep itineraries whose owner is gone")
		}
	})

	mt.Run("owner gone", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: itID},
			{Key: "user", Value: ownerID},
		}))
		it, err := store.Get(ctx, itID.Hex())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if it.User != nil || it.UserID != ownerID {
			t.Fatalf("missing owner should leave User nil, got %+v", it.User)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		if _, err := store.Get(ctx, itID.Hex()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			t.Fatalf("malformed id must not reach the server, sent %s", evt.CommandName)
		}
	})
}

func TestItineraryListSendsFilter(t *testing.T) {
	mt := newMock(t)

	mt.Run("filtered", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "tripLength", Value: "Week"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "tripLength", Value: "Week"}},
		))
		list, err := store.List(context.Background(), models.ItineraryFilter{TripLength: "Week"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 itineraries, got %d", len(list))
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("pipeline", "0", "$match", "tripLength").StringValue(); got != "Week" {
			t.Fatalf("expected tripLength filter, got %q", got)
		}
		if _, err := cmd.LookupErr("pipeline", "1", "$lookup", "pipeline", "1", "$project", "bio"); err == nil {
			t.Fatalf("list views project only the owner summary")
		}
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		list, err := store.List(context.Background(), models.ItineraryFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", list)
		}
		match := mt.GetStartedEvent().Command.Lookup("pipeline", "0", "$match").Document()
		if elems, _ := match.Elements(); len(elems) != 0 {
			t.Fatalf("no filters should match everything, got %s", match)
		}
	})
}

func TestItineraryCreateDoesNotStoreOwner(t *testing.T) {
	mt := newMock(t)

	mt.Run("insert", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		it := &models.Itinerary{
			Title:  "Trip",
			UserID: primitive.NewObjectID(),
			User:   &models.UserSummary{Name: "Emma"},
		}
		if err := store.Create(context.Background(), it); err != nil {
			t.Fatalf("create: %v", err)
		}
		if it.ID.IsZero() || it.User == nil {
			t.Fatalf("create should assign an id and restore the owner, got %+v", it)
		}
		cmd := mt.GetStartedEvent().Command
		if _, err := cmd.LookupErr("documents", "0", "owner"); err == nil {
			t.Fatalf("expanded owner must not be persisted: %s", cmd)
		}
		if got := cmd.Lookup("documents", "0", "user").ObjectID(); got != it.UserID {
			t.Fatalf("expected owner id %s, got %s", it.UserID.Hex(), got.Hex())
		}
	})
}

func TestFilterOptionsFromDistinct(t *testing.T) {
	mt := newMock(t)

	mt.Run("distinct", func(mt *mtest.T) {
		store := NewItineraryStore(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{"Paris, France", "", "Kyoto, Japan", "Paris, France"}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{"Week"}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
		)
		opts, err := store.FilterOptions(context.Background())
		if err != nil {
			t.Fatalf("filter options: %v", err)
		}
		if len(opts.Locations) != 2 || opts.Locations[0] != "Kyoto, Japan" || opts.Locations[1] != "Paris, France" {
			t.Fatalf("unexpected locations %v", opts.Locations)
		}
		if len(opts.TripLengths) != 1 || opts.TripLengths[0] != "Week" {
			t.Fatalf("unexpected trip lengths %v", opts.TripLengths)
		}
		if opts.ExperienceTypes == nil || len(opts.ExperienceTypes) != 0 {
			t.Fatalf("expected empty experience types, got %#v", opts.ExperienceTypes)
		}
		for _, field := range []string{"location", "tripLength", "experienceType"} {
			if got := mt.GetStartedEvent().Command.Lookup("key").StringValue(); got != field {
				t.Fatalf("expected distinct on %s, got %s", field, got)
			}
		}
	})
}

func TestCommentStoreDelete(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	commentID, itineraryID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("returns the removed comment", func(mt *mtest.T) {
		store := NewCommentStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: commentID},
			{Key: "content", Value: "Great!"},
			{Key: "itinerary", Value: itineraryID},
			{Key: "createdAt", Value: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		}}))
		c, err := store.Delete(ctx, commentID.Hex())
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if c.ID != commentID || c.ItineraryID != itineraryID {
			t.Fatalf("unexpected comment %+v", c)
		}
		if name := mt.GetStartedEvent().CommandName; name != "findAndModify" {
			t.Fatalf("expected findAndModify, got %s", name)
		}
	})

	mt.Run("missing comment", func(mt *mtest.T) {
		store := NewCommentStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		if _, err := store.Delete(ctx, commentID.Hex()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCommentStoreListNewestFirst(t *testing.T) {
	mt := newMock(t)

	mt.Run("sort and author lookup", func(mt *mtest.T) {
		store := NewCommentStore(mt.Coll)
		itineraryID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		list, err := store.ListByItinerary(context.Background(), itineraryID.Hex())
		if err != nil || list == nil || len(list) != 0 {
			t.Fatalf("expected empty list, got %v %#v", err, list)
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("pipeline", "1", "$sort", "createdAt").AsInt64(); got != -1 {
			t.Fatalf("expected createdAt descending, got %d", got)
		}
		if got := cmd.Lookup("pipeline", "2", "$lookup", "as").StringValue(); got != "author" {
			t.Fatalf("expected author lookup, got %q", got)
		}
	})
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	mt := newMock(t)

	mt.Run("duplicate", func(mt *mtest.T) {
		store := NewUserStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: travelbuddy.users index: email_1",
		}))
		err := store.Create(context.Background(), &models.User{Name: "Emma", Email: "emma@example.com"})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		store := NewUserStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		if _, err := store.FindByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
