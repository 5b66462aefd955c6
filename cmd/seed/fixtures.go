package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ghodss/yaml"

	"travelbuddy/models"
	"travelbuddy/utils"
)

//go:embed seed.yaml
var defaultFixtures []byte

type fixtureComment struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type fixtureItinerary struct {
	Author    string                `json:"author"`
	Itinerary models.ItineraryInput `json:"itinerary"`
	Comments  []fixtureComment      `json:"comments"`
}

type fixtures struct {
	Users       []models.RegisterInput `json:"users"`
	Itineraries []fixtureItinerary     `json:"itineraries"`
}

// loadFixtures parses path, or the embedded data set when path is empty,
// and checks every record the same way the API will.
func loadFixtures(path string) (*fixtures, error) {
	raw := defaultFixtures
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
		raw = b
	}

	var f fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	known := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		f.Users[i].Email = utils.NormalizeEmail(u.Email)
		if msgs := utils.Validate(f.Users[i]); msgs != nil {
			return nil, fmt.Errorf("user %d: %v", i, msgs)
		}
		known[f.Users[i].Email] = true
	}
	for i, it := range f.Itineraries {
		if !known[utils.NormalizeEmail(it.Author)] {
			return nil, fmt.Errorf("itinerary %d: unknown author %q", i, it.Author)
		}
		if msgs := utils.Validate(it.Itinerary); msgs != nil {
			return nil, fmt.Errorf("itinerary %d: %v", i, msgs)
		}
		for j, c := range it.Comments {
			if !known[utils.NormalizeEmail(c.Author)] || c.Content == "" {
				return nil, fmt.Errorf("itinerary %d comment %d: needs a known author and content", i, j)
			}
		}
	}
	return &f, nil
}
