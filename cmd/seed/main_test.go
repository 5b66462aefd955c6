package main

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"travelbuddy/auth"
	"travelbuddy/comments"
	"travelbuddy/config"
	"travelbuddy/globals"
	"travelbuddy/itinerary"
	"travelbuddy/memstore"
	"travelbuddy/models"
	"travelbuddy/profile"
	"travelbuddy/ratelim"
	"travelbuddy/rdx"
	"travelbuddy/routes"
)

func TestRunWithinDefaultRateLimit(t *testing.T) {
	prev := globals.JwtSecret
	globals.JwtSecret = []byte("seed-test-secret")
	t.Cleanup(func() { globals.JwtSecret = prev })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memstore.New()
	itins, err := itinerary.NewHandler(store.Itineraries, rdx.Noop{}, logger, config.PlaceholderOwnerID, "http://localhost:5173")
	if err != nil {
		t.Fatalf("itinerary handler: %v", err)
	}
	comms, err := comments.NewHandler(store.Comments, store.Itineraries, rdx.Noop{}, logger, config.PlaceholderOwnerID)
	if err != nil {
		t.Fatalf("comments handler: %v", err)
	}
	// the server's out-of-the-box write limit
	router := routes.NewRouter(routes.Handlers{
		Itineraries: itins,
		Comments:    comms,
		Auth:        auth.NewHandler(store.Users, logger),
		Profiles:    profile.NewHandler(store.Users, logger),
	}, ratelim.NewRateLimiter(5, 10), logger)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	if err := run(ctx, srv.URL+"/api", "", 5, logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := store.Itineraries.List(ctx, models.ItineraryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 seeded itineraries, got %d", len(list))
	}
	total := 0
	for _, it := range list {
		total += it.Comments
	}
	f, _ := loadFixtures("")
	want := 0
	for _, fi := range f.Itineraries {
		want += len(fi.Comments)
	}
	if total != want {
		t.Fatalf("expected %d comments counted, got %d", want, total)
	}
}
