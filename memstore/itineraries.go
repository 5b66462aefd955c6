package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/db"
	"travelbuddy/models"
)

type ItineraryStore struct {
	d *data
}

func (s *ItineraryStore) view(it models.Itinerary, profile bool) models.Itinerary {
	out := cloneItinerary(it)
	out.User = s.d.summary(it.UserID, profile)
	out.EnsureSlices()
	return out
}

func (s *ItineraryStore) List(_ context.Context, f models.ItineraryFilter) ([]models.Itinerary, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	out := []models.Itinerary{}
	for _, id := range s.d.itinOrder {
		it := s.d.itineraries[id]
		if matches(it, f) {
			out = append(out, s.view(it, false))
		}
	}
	return out, nil
}

func (s *ItineraryStore) ListByUser(_ context.Context, userID string) ([]models.Itinerary, error) {
	oid, err := db.ParseID(userID)
	if err != nil {
		return nil, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	out := []models.Itinerary{}
	for _, id := range s.d.itinOrder {
		if it := s.d.itineraries[id]; it.UserID == oid {
			out = append(out, s.view(it, false))
		}
	}
	return out, nil
}

func (s *ItineraryStore) Get(_ context.Context, id string) (*models.Itinerary, error) {
	oid, err := db.ParseID(id)
	if err != nil {
		return nil, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	it, ok := s.d.itineraries[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := s.view(it, true)
	return &out, nil
}

func (s *ItineraryStore) Create(_ context.Context, it *models.Itinerary) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if it.ID.IsZero() {
		it.ID = primitive.NewObjectID()
	}
	if _, ok := s.d.itineraries[it.ID]; ok {
		return db.ErrDuplicate
	}
	s.d.itineraries[it.ID] = cloneItinerary(*it)
	s.d.itinOrder = append(s.d.itinOrder, it.ID)
	return nil
}

func (s *ItineraryStore) Update(_ context.Context, it *models.Itinerary) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	cur, ok := s.d.itineraries[it.ID]
	if !ok {
		return db.ErrNotFound
	}
	next := cloneItinerary(*it)
	cur.Title = next.Title
	cur.Description = next.Description
	cur.Location = next.Location
	cur.CoverImage = next.CoverImage
	cur.Images = next.Images
	cur.TripLength = next.TripLength
	cur.ExperienceType = next.ExperienceType
	cur.Days = next.Days
	cur.UpdatedAt = next.UpdatedAt
	s.d.itineraries[it.ID] = cur
	return nil
}

func (s *ItineraryStore) Delete(_ context.Context, id string) error {
	oid, err := db.ParseID(id)
	if err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.itineraries[oid]; !ok {
		return db.ErrNotFound
	}
	delete(s.d.itineraries, oid)
	s.d.itinOrder = removeID(s.d.itinOrder, oid)
	return nil
}

func (s *ItineraryStore) AdjustComments(_ context.Context, id primitive.ObjectID, delta int) error {
	if delta == 0 {
		return nil
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	it, ok := s.d.itineraries[id]
	if !ok {
		if delta > 0 {
			return db.ErrNotFound
		}
		return nil
	}
	if delta < 0 && it.Comments < -delta {
		return nil
	}
	it.Comments += delta
	s.d.itineraries[id] = it
	return nil
}

func (s *ItineraryStore) FilterOptions(_ context.Context) (models.FilterOptions, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	locs, lengths, kinds := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	for _, it := range s.d.itineraries {
		if it.Location != "" {
			locs[it.Location] = struct{}{}
		}
		if it.TripLength != "" {
			lengths[it.TripLength] = struct{}{}
		}
		if it.ExperienceType != "" {
			kinds[it.ExperienceType] = struct{}{}
		}
	}
	return models.FilterOptions{
		Locations:       sortedDistinct(locs),
		TripLengths:     sortedDistinct(lengths),
		ExperienceTypes: sortedDistinct(kinds),
	}, nil
}
