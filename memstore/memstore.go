// Package memstore keeps users, itineraries and comments in process memory.
// It honours the same contracts as the MongoDB stores and backs the tests and
// STORE_DRIVER=memory runs.
package memstore

import (
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/models"
)

type data struct {
	mu          sync.RWMutex
	users       map[primitive.ObjectID]models.User
	userOrder   []primitive.ObjectID
	itineraries map[primitive.ObjectID]models.Itinerary
	itinOrder   []primitive.ObjectID
	comments    map[primitive.ObjectID]storedComment
	seq         int64
}

type storedComment struct {
	models.Comment
	seq int64
}

// Store groups the three collection views over one shared dataset
type Store struct {
	Users       *UserStore
	Itineraries *ItineraryStore
	Comments    *CommentStore
}

func New() *Store {
	d := &data{
		users:       make(map[primitive.ObjectID]models.User),
		itineraries: make(map[primitive.ObjectID]models.Itinerary),
		comments:    make(map[primitive.ObjectID]storedComment),
	}
	return &Store{
		Users:       &UserStore{d: d},
		Itineraries: &ItineraryStore{d: d},
		Comments:    &CommentStore{d: d},
	}
}

// summary must be called with the lock held
func (d *data) summary(id primitive.ObjectID, profile bool) *models.UserSummary {
	u, ok := d.users[id]
	if !ok {
		return nil
	}
	if profile {
		return u.Profile()
	}
	return u.Summary()
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneItinerary(it models.Itinerary) models.Itinerary {
	if it.Images != nil {
		it.Images = append([]string(nil), it.Images...)
	}
	if it.Days != nil {
		days := make([]models.Day, len(it.Days))
		for i, d := range it.Days {
			if d.Activities != nil {
				d.Activities = append([]models.Activity(nil), d.Activities...)
			}
			days[i] = d
		}
		it.Days = days
	}
	it.User = nil
	return it
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matches(it models.Itinerary, f models.ItineraryFilter) bool {
	if v := strings.TrimSpace(f.Location); v != "" && !containsFold(it.Location, v) {
		return false
	}
	if f.TripLength != "" && it.TripLength != f.TripLength {
		return false
	}
	if f.ExperienceType != "" && it.ExperienceType != f.ExperienceType {
		return false
	}
	if v := strings.TrimSpace(f.Query); v != "" &&
		!containsFold(it.Title, v) && !containsFold(it.Description, v) && !containsFold(it.Location, v) {
		return false
	}
	return true
}

func sortedDistinct(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
