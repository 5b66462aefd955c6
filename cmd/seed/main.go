// Command seed loads demo users, itineraries and comments through the public API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"travelbuddy/client"
	"travelbuddy/logging"
	"travelbuddy/utils"
)

func main() {
	apiURL := flag.String("api", "http://localhost:5000/api", "API base URL")
	file := flag.String("file", "", "YAML fixtures (defaults to the embedded set)")
	rps := flag.Float64("rps", 4, "requests per second, kept under the server's write limit")
	flag.Parse()

	logger := logging.New(os.Getenv("LOG_LEVEL"), "")
	if err := run(context.Background(), *apiURL, *file, *rps, logger); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}

func run(ctx context.Context, apiURL, file string, rps float64, logger *logrus.Logger) error {
	f, err := loadFixtures(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	// every session shares one bucket since the server limits per client IP
	pace := client.WithRateLimit(rps, 1)
	sessions := make(map[string]*client.Client, len(f.Users))
	for _, u := range f.Users {
		c := client.New(apiURL, pace)
		if _, err := c.Register(ctx, u); err != nil {
			var apiErr *client.APIError
			if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
				return err
			}
			logger.WithField("email", u.Email).Info("user exists, logging in")
		}
		if _, err := c.Login(ctx, u.Email, u.Password); err != nil {
			return err
		}
		sessions[u.Email] = c
	}

	for _, fi := range f.Itineraries {
		author := sessions[utils.NormalizeEmail(fi.Author)]
		it, err := author.CreateItinerary(ctx, fi.Itinerary)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"id": it.ID, "title": it.Title}).Info("itinerary created")

		for _, fc := range fi.Comments {
			if _, err := sessions[utils.NormalizeEmail(fc.Author)].AddComment(ctx, it.ID, fc.Content); err != nil {
				return err
			}
		}
	}
	logger.WithFields(logrus.Fields{"users": len(f.Users), "itineraries": len(f.Itineraries)}).Info("seed complete")
	return nil
}
