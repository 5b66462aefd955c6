package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"travelbuddy/auth"
	"travelbuddy/comments"
	"travelbuddy/itinerary"
	"travelbuddy/middleware"
	"travelbuddy/profile"
	"travelbuddy/ratelim"
	"travelbuddy/utils"
)

// Handlers bundles the endpoint groups mounted under /api
type Handlers struct {
	Itineraries *itinerary.Handler
	Comments    *comments.Handler
	Auth        *auth.Handler
	Profiles    *profile.Handler
}

// NewRouter builds the API router. Unknown routes and panics answer with the
// same {message} body as every other error.
func NewRouter(h Handlers, rateLimiter *ratelim.RateLimiter, logger *logrus.Logger) *httprouter.Router {
	router := httprouter.New()
	router.HandleMethodNotAllowed = false
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "API endpoint not found")
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		logger.WithFields(logrus.Fields{"panic": v, "path": r.URL.Path}).Error("handler panicked")
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong!")
	}

	router.GET("/", Index)
	router.GET("/health", Health)
	RoutesWrapper(router, h, rateLimiter)
	return router
}

// Index is the API welcome document
func Index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Welcome to TravelBuddy API"})
}

func Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
}

func AddItineraryRoutes(router *httprouter.Router, h *itinerary.Handler, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/itineraries", h.GetItineraries)
	router.GET("/api/itineraries/:id", itineraryByID(h))
	router.GET("/api/itineraries/:id/:sub", itinerarySubresource(h))
	router.POST("/api/itineraries", rateLimiter.Limit(middleware.OptionalAuth(h.CreateItinerary)))
	router.PUT("/api/itineraries/:id", rateLimiter.Limit(middleware.OptionalAuth(h.UpdateItinerary)))
	router.DELETE("/api/itineraries/:id", rateLimiter.Limit(middleware.OptionalAuth(h.DeleteItinerary)))
}

func AddCommentsRoutes(router *httprouter.Router, h *comments.Handler, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/comments/:id", h.GetComment)
	router.GET("/api/comments/:id/:itineraryId", commentsByItinerary(h))
	router.POST("/api/comments", rateLimiter.Limit(middleware.OptionalAuth(h.CreateComment)))
	router.PUT("/api/comments/:id", rateLimiter.Limit(middleware.OptionalAuth(h.UpdateComment)))
	router.DELETE("/api/comments/:id", rateLimiter.Limit(middleware.OptionalAuth(h.DeleteComment)))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/users", rateLimiter.Limit(h.Register))
	router.POST("/api/users/login", rateLimiter.Limit(h.Login))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/users", h.GetUsers)
	router.GET("/api/users/:id", h.GetUserProfile)
	router.PUT("/api/users/:id", rateLimiter.Limit(h.UpdateUserProfile))
	router.DELETE("/api/users/:id", rateLimiter.Limit(h.DeleteUser))
}
