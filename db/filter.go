package db

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"travelbuddy/models"
)

// FilterBuilder helps build MongoDB filters fluently
type FilterBuilder struct {
	filter bson.M
}

func NewFilter() *FilterBuilder {
	return &FilterBuilder{filter: bson.M{}}
}

// Eq adds an equality condition
func (f *FilterBuilder) Eq(field string, value interface{}) *FilterBuilder {
	f.filter[field] = value
	return f
}

// Contains adds a case-insensitive substring match. value is matched literally.
func (f *FilterBuilder) Contains(field, value string) *FilterBuilder {
	f.filter[field] = containsRegex(value)
	return f
}

// Or adds an $or over the given sub-filters
func (f *FilterBuilder) Or(conds ...bson.M) *FilterBuilder {
	if len(conds) > 0 {
		f.filter["$or"] = conds
	}
	return f
}

func (f *FilterBuilder) Build() bson.M {
	return f.filter
}

func containsRegex(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}

// itineraryFilter translates the list query into a Mongo filter. Blank
// substring fields and empty exact fields are skipped.
func itineraryFilter(q models.ItineraryFilter) bson.M {
	b := NewFilter()
	if v := strings.TrimSpace(q.Location); v != "" {
		b.Contains("location", v)
	}
	if q.TripLength != "" {
		b.Eq("tripLength", q.TripLength)
	}
	if q.ExperienceType != "" {
		b.Eq("experienceType", q.ExperienceType)
	}
	if v := strings.TrimSpace(q.Query); v != "" {
		b.Or(
			bson.M{"title": containsRegex(v)},
			bson.M{"description": containsRegex(v)},
			bson.M{"location": containsRegex(v)},
		)
	}
	return b.Build()
}
