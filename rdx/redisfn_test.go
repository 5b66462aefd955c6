package rdx

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNoopAlwaysMisses(t *testing.T) {
	var c Cache = Noop{}
	c.SetItinerary(context.Background(), &models.Itinerary{ID: primitive.NewObjectID()})
	if _, ok := c.GetItinerary(context.Background(), "x"); ok {
		t.Fatalf("noop cache should never hit")
	}
}

func TestUnreachableRedisDegradesToMiss(t *testing.T) {
	// nothing listens on port 1
	c := NewRedisCache(Connect("127.0.0.1:1", ""), time.Minute, quietLogger())
	ctx := context.Background()
	it := &models.Itinerary{ID: primitive.NewObjectID(), Title: "T"}

	for i := 0; i < 5; i++ {
		c.SetItinerary(ctx, it)
		if _, ok := c.GetItinerary(ctx, it.ID.Hex()); ok {
			t.Fatalf("expected miss from unreachable redis")
		}
	}
	if c.cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected breaker to open after repeated failures, state %s", c.cb.State())
	}
}

func TestItineraryKey(t *testing.T) {
	if got := itineraryKey("abc"); got != "itinerary:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}
