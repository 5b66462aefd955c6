package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Itinerary represents a shared multi-day trip plan
type Itinerary struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title          string             `json:"title" bson:"title"`
	Description    string             `json:"description" bson:"description"`
	Location       string             `json:"location" bson:"location"`
	CoverImage     string             `json:"coverImage" bson:"coverImage"`
	Images         []string           `json:"images" bson:"images"`
	TripLength     string             `json:"tripLength" bson:"tripLength"`
	ExperienceType string             `json:"experienceType" bson:"experienceType"`
	Days           []Day              `json:"days" bson:"days"`
	Likes          int                `json:"likes" bson:"likes"`
	Comments       int                `json:"comments" bson:"comments"`
	UserID         primitive.ObjectID `json:"userId" bson:"user"`
	// populated from the users collection on read, never stored
	User      *UserSummary `json:"user" bson:"owner,omitempty"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updatedAt"`
}

type Day struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	DayNumber     int                `json:"dayNumber" bson:"dayNumber"`
	Activities    []Activity         `json:"activities" bson:"activities"`
	Accommodation string             `json:"accommodation" bson:"accommodation"`
	Meals         string             `json:"meals" bson:"meals"`
	Notes         string             `json:"notes" bson:"notes"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Activity struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Time        string             `json:"time" bson:"time"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
}

// DayInput is a day as sent by clients. Any client-side id is dropped on decode.
type DayInput struct {
	DayNumber     int             `json:"dayNumber" validate:"gt=0"`
	Activities    []ActivityInput `json:"activities" validate:"dive"`
	Accommodation string          `json:"accommodation"`
	Meals         string          `json:"meals"`
	Notes         string          `json:"notes"`
}

type ActivityInput struct {
	Time        string `json:"time"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location"`
	Image       string `json:"image"`
}

// ItineraryInput is the create payload
type ItineraryInput struct {
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Location       string     `json:"location" validate:"required"`
	TripLength     string     `json:"tripLength" validate:"required"`
	ExperienceType string     `json:"experienceType" validate:"required"`
	CoverImage     string     `json:"coverImage" validate:"required"`
	Images         []string   `json:"images"`
	Days           []DayInput `json:"days" validate:"dive"`
}

// ItineraryPatch carries an update. A nil field was omitted by the caller and
// leaves the stored value alone; a non-nil field overwrites, empty or not.
type ItineraryPatch struct {
	Title          *string     `json:"title"`
	Description    *string     `json:"description"`
	Location       *string     `json:"location"`
	TripLength     *string     `json:"tripLength"`
	ExperienceType *string     `json:"experienceType"`
	CoverImage     *string     `json:"coverImage"`
	Images         *[]string   `json:"images"`
	Days           *[]DayInput `json:"days"`
}

// ItineraryFilter narrows the list endpoint. Empty fields are ignored.
type ItineraryFilter struct {
	Location       string
	TripLength     string
	ExperienceType string
	Query          string
}

func (f ItineraryFilter) IsZero() bool {
	return f == ItineraryFilter{}
}

// FilterOptions holds the distinct values currently present in the data
type FilterOptions struct {
	Locations       []string `json:"locations"`
	TripLengths     []string `json:"tripLengths"`
	ExperienceTypes []string `json:"experienceTypes"`
}

// NewItinerary builds a storable itinerary from a create payload
func NewItinerary(in ItineraryInput, owner primitive.ObjectID, now time.Time) *Itinerary {
	it := &Itinerary{
		Title:          in.Title,
		Description:    in.Description,
		Location:       in.Location,
		CoverImage:     in.CoverImage,
		Images:         in.Images,
		TripLength:     in.TripLength,
		ExperienceType: in.ExperienceType,
		Days:           BuildDays(in.Days, now),
		UserID:         owner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	it.EnsureSlices()
	return it
}

// BuildDays assigns fresh ids to every day and activity
func BuildDays(in []DayInput, now time.Time) []Day {
	days := make([]Day, 0, len(in))
	for _, d := range in {
		acts := make([]Activity, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, Activity{
				ID:          primitive.NewObjectID(),
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Location:    a.Location,
				Image:       a.Image,
			})
		}
		days = append(days, Day{
			ID:            primitive.NewObjectID(),
			DayNumber:     d.DayNumber,
			Activities:    acts,
			Accommodation: d.Accommodation,
			Meals:         d.Meals,
			Notes:         d.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return days
}

// Apply copies every supplied field of p onto it
func (p ItineraryPatch) Apply(it *Itinerary, now time.Time) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Location != nil {
		it.Location = *p.Location
	}
	if p.TripLength != nil {
		it.TripLength = *p.TripLength
	}
	if p.ExperienceType != nil {
		it.ExperienceType = *p.ExperienceType
	}
	if p.CoverImage != nil {
		it.CoverImage = *p.CoverImage
	}
	if p.Images != nil {
		it.Images = *p.Images
	}
	if p.Days != nil {
		it.Days = BuildDays(*p.Days, now)
	}
	it.UpdatedAt = now
	it.EnsureSlices()
}

// Input returns the itinerary's fields in create-payload form, for validation
func (it *Itinerary) Input() ItineraryInput {
	in := ItineraryInput{
		Title:          it.Title,
		Description:    it.Description,
		Location:       it.Location,
		TripLength:     it.TripLength,
		ExperienceType: it.ExperienceType,
		CoverImage:     it.CoverImage,
		Images:         it.Images,
	}
	for _, d := range it.Days {
		di := DayInput{
			DayNumber:     d.DayNumber,
			Accommodation: d.Accommodation,
			Meals:         d.Meals,
			Notes:         d.Notes,
		}
		for _, a := range d.Activities {
			di.Activities = append(di.Activities, ActivityInput{
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Location:    a.Location,
				Image:       a.Image,
			})
		}
		in.Days = append(in.Days, di)
	}
	return in
}

// EnsureSlices replaces nil slices so they encode as [] instead of null
func (it *Itinerary) EnsureSlices() {
	if it.Images == nil {
		it.Images = []string{}
	}
	if it.Days == nil {
		it.Days = []Day{}
	}
	for i := range it.Days {
		if it.Days[i].Activities == nil {
			it.Days[i].Activities = []Activity{}
		}
	}
}
