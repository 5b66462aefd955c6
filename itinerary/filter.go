package itinerary

import (
	"net/url"
	"strings"

	"travelbuddy/models"
)

// parseFilter reads the list query. Empty parameters are ignored. The
// substring fields are trimmed; tripLength and experienceType are matched
// exactly as sent.
func parseFilter(q url.Values) models.ItineraryFilter {
	return models.ItineraryFilter{
		Location:       strings.TrimSpace(q.Get("location")),
		TripLength:     q.Get("tripLength"),
		ExperienceType: q.Get("experienceType"),
		Query:          strings.TrimSpace(q.Get("q")),
	}
}
