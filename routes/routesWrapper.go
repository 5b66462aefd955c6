package routes

import (
	"github.com/julienschmidt/httprouter"

	"travelbuddy/ratelim"
)

func RoutesWrapper(router *httprouter.Router, h Handlers, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, h.Auth, rateLimiter)
	AddProfileRoutes(router, h.Profiles, rateLimiter)
	AddItineraryRoutes(router, h.Itineraries, rateLimiter)
	AddCommentsRoutes(router, h.Comments, rateLimiter)
}
