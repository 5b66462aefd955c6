package db

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"travelbuddy/models"
)

// ItineraryStore persists itineraries in MongoDB. Owners are joined from the
// users collection on every read.
type ItineraryStore struct {
	coll  *mongo.Collection
	users string
}

func NewItineraryStore(coll *mongo.Collection) *ItineraryStore {
	return &ItineraryStore{coll: coll, users: usersName}
}

var (
	summaryFields = bson.M{"name": 1, "profileImage": 1}
	profileFields = bson.M{"name": 1, "profileImage": 1, "bio": 1, "followers": 1, "following": 1}
)

// lookupUser joins the user referenced by localField into as, keeping the
// parent document when the user is gone.
func lookupUser(from, localField, as string, fields bson.M) []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from": from,
			"let":  bson.M{"uid": "$" + localField},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$uid"}}}},
				{"$project": fields},
			},
			"as": as,
		}},
		{"$unwind": bson.M{"path": "$" + as, "preserveNullAndEmptyArrays": true}},
	}
}

func (s *ItineraryStore) find(ctx context.Context, match bson.M, fields bson.M) ([]models.Itinerary, error) {
	pipeline := append([]bson.M{{"$match": match}}, lookupUser(s.users, "user", "owner", fields)...)
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	itineraries := []models.Itinerary{}
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, err
	}
	for i := range itineraries {
		itineraries[i].EnsureSlices()
	}
	return itineraries, nil
}

func (s *ItineraryStore) List(ctx context.Context, filter models.ItineraryFilter) ([]models.Itinerary, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	out, err := s.find(ctx, itineraryFilter(filter), summaryFields)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	return out, nil
}

func (s *ItineraryStore) ListByUser(ctx context.Context, userID string) ([]models.Itinerary, error) {
	oid, err := ParseID(userID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	out, err := s.find(ctx, bson.M{"user": oid}, summaryFields)
	if err != nil {
		return nil, fmt.Errorf("list itineraries for %s: %w", userID, err)
	}
	return out, nil
}

// Get returns one itinerary with the owner's public profile attached
func (s *ItineraryStore) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	out, err := s.find(ctx, bson.M{"_id": oid}, profileFields)
	if err != nil {
		return nil, fmt.Errorf("get itinerary %s: %w", id, err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (s *ItineraryStore) Create(ctx context.Context, it *models.Itinerary) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if it.ID.IsZero() {
		it.ID = primitive.NewObjectID()
	}
	owner := it.User
	it.User = nil
	_, err := s.coll.InsertOne(ctx, it)
	it.User = owner
	if err != nil {
		return fmt.Errorf("insert itinerary: %w", translate(err))
	}
	return nil
}

// Update overwrites the editable fields of it. Counters are left alone so
// concurrent comment activity is never lost.
func (s *ItineraryStore) Update(ctx context.Context, it *models.Itinerary) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	set := bson.M{
		"title":          it.Title,
		"description":    it.Description,
		"location":       it.Location,
		"coverImage":     it.CoverImage,
		"images":         it.Images,
		"tripLength":     it.TripLength,
		"experienceType": it.ExperienceType,
		"days":           it.Days,
		"updatedAt":      it.UpdatedAt,
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": it.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update itinerary %s: %w", it.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ItineraryStore) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete itinerary %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustComments moves the comment counter by delta in a single atomic update.
// Increments fail with ErrNotFound when the itinerary is gone; decrements never
// take the counter below zero and are a no-op on a missing itinerary.
func (s *ItineraryStore) AdjustComments(ctx context.Context, id primitive.ObjectID, delta int) error {
	if delta == 0 {
		return nil
	}
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["comments"] = bson.M{"$gte": -delta}
	}
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"comments": delta}})
	if err != nil {
		return fmt.Errorf("adjust comments on %s: %w", id.Hex(), err)
	}
	if delta > 0 && res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FilterOptions collects the distinct filterable values currently stored
func (s *ItineraryStore) FilterOptions(ctx context.Context) (models.FilterOptions, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	var opts models.FilterOptions
	for _, f := range []struct {
		field string
		dst   *[]string
	}{
		{"location", &opts.Locations},
		{"tripLength", &opts.TripLengths},
		{"experienceType", &opts.ExperienceTypes},
	} {
		values, err := s.coll.Distinct(ctx, f.field, bson.M{})
		if err != nil {
			return models.FilterOptions{}, fmt.Errorf("distinct %s: %w", f.field, err)
		}
		*f.dst = distinctStrings(values)
	}
	return opts, nil
}

func distinctStrings(values []interface{}) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
