package client

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// View models are what a display layer works with: ids are plain strings,
// counters are never missing and every day has an id.

type User struct {
	ID           string
	Name         string
	Email        string
	ProfileImage string
	Bio          string
	Followers    int
	Following    int
}

type Activity struct {
	ID          string `json:"_id,omitempty"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Day struct {
	ID            string
	DayNumber     int
	Activities    []Activity
	Accommodation string
	Meals         string
	Notes         string
}

type Itinerary struct {
	ID             string
	Title          string
	Description    string
	Location       string
	CoverImage     string
	Images         []string
	TripLength     string
	ExperienceType string
	UserID         string
	User           *User
	Likes          int
	Comments       int
	Days           []Day
	CreatedAt      time.Time
}

type Comment struct {
	ID          string
	Content     string
	UserID      string
	User        *User
	ItineraryID string
	CreatedAt   time.Time
}

type FilterOptions struct {
	Locations       []string `json:"locations"`
	TripLengths     []string `json:"tripLengths"`
	ExperienceTypes []string `json:"experienceTypes"`
}

// Used when the server cannot be reached
var (
	DefaultTripLengths     = []string{"Weekend", "Long Weekend", "Week", "2+ Weeks"}
	DefaultExperienceTypes = []string{"Adventure", "Cultural", "Romantic", "Wellness", "Family"}
)

func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Locations:       []string{},
		TripLengths:     append([]string(nil), DefaultTripLengths...),
		ExperienceTypes: append([]string(nil), DefaultExperienceTypes...),
	}
}

type wireUser struct {
	ID           string `json:"_id"`
	AltID        string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	Bio          string `json:"bio"`
	Followers    int    `json:"followers"`
	Following    int    `json:"following"`
}

// userRef is a user reference that may arrive expanded, as a bare id or as null
type userRef struct {
	id   string
	user *wireUser
}

func (u *userRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		return json.Unmarshal(b, &u.id)
	}
	var wu wireUser
	if err := json.Unmarshal(b, &wu); err != nil {
		return err
	}
	u.user = &wu
	u.id = firstNonEmpty(wu.ID, wu.AltID)
	return nil
}

type wireDay struct {
	ID            string     `json:"_id"`
	AltID         string     `json:"id"`
	DayNumber     int        `json:"dayNumber"`
	Activities    []Activity `json:"activities"`
	Accommodation string     `json:"accommodation"`
	Meals         string     `json:"meals"`
	Notes         string     `json:"notes"`
}

type wireItinerary struct {
	ID             string    `json:"_id"`
	AltID          string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	CoverImage     string    `json:"coverImage"`
	Images         []string  `json:"images"`
	TripLength     string    `json:"tripLength"`
	ExperienceType string    `json:"experienceType"`
	UserID         string    `json:"userId"`
	User           userRef   `json:"user"`
	Likes          int       `json:"likes"`
	Comments       int       `json:"comments"`
	Days           []wireDay `json:"days"`
	CreatedAt      string    `json:"createdAt"`
}

type wireComment struct {
	ID          string  `json:"_id"`
	AltID       string  `json:"id"`
	Content     string  `json:"content"`
	UserID      string  `json:"userId"`
	User        userRef `json:"user"`
	Itinerary   string  `json:"itinerary"`
	ItineraryID string  `json:"itineraryId"`
	CreatedAt   string  `json:"createdAt"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseTime(raw string, now func() time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	return now()
}

func adaptUser(wu *wireUser) *User {
	if wu == nil {
		return nil
	}
	return &User{
		ID:           firstNonEmpty(wu.ID, wu.AltID),
		Name:         wu.Name,
		Email:        wu.Email,
		ProfileImage: wu.ProfileImage,
		Bio:          wu.Bio,
		Followers:    wu.Followers,
		Following:    wu.Following,
	}
}

func adaptDay(wd wireDay) Day {
	acts := wd.Activities
	if acts == nil {
		acts = []Activity{}
	}
	return Day{
		ID:            firstNonEmpty(wd.ID, wd.AltID, uuid.NewString()),
		DayNumber:     wd.DayNumber,
		Activities:    acts,
		Accommodation: wd.Accommodation,
		Meals:         wd.Meals,
		Notes:         wd.Notes,
	}
}

func adaptItinerary(wi wireItinerary, now func() time.Time) Itinerary {
	days := make([]Day, 0, len(wi.Days))
	for _, d := range wi.Days {
		days = append(days, adaptDay(d))
	}
	images := wi.Images
	if images == nil {
		images = []string{}
	}
	return Itinerary{
		ID:             firstNonEmpty(wi.ID, wi.AltID),
		Title:          wi.Title,
		Description:    wi.Description,
		Location:       wi.Location,
		CoverImage:     wi.CoverImage,
		Images:         images,
		TripLength:     wi.TripLength,
		ExperienceType: wi.ExperienceType,
		UserID:         firstNonEmpty(wi.UserID, wi.User.id),
		User:           adaptUser(wi.User.user),
		Likes:          wi.Likes,
		Comments:       wi.Comments,
		Days:           days,
		CreatedAt:      parseTime(wi.CreatedAt, now),
	}
}

func adaptComment(wc wireComment, now func() time.Time) Comment {
	return Comment{
		ID:          firstNonEmpty(wc.ID, wc.AltID),
		Content:     wc.Content,
		UserID:      firstNonEmpty(wc.UserID, wc.User.id),
		User:        adaptUser(wc.User.user),
		ItineraryID: firstNonEmpty(wc.ItineraryID, wc.Itinerary),
		CreatedAt:   parseTime(wc.CreatedAt, now),
	}
}

// Search narrows already-loaded itineraries with the same case-insensitive
// title/description/location match the server applies for ?q=.
func Search(itineraries []Itinerary, query string) []Itinerary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return itineraries
	}
	out := make([]Itinerary, 0, len(itineraries))
	for _, it := range itineraries {
		if strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.Description), q) ||
			strings.Contains(strings.ToLower(it.Location), q) {
			out = append(out, it)
		}
	}
	return out
}
