package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelbuddy/comments"
	"travelbuddy/itinerary"
	"travelbuddy/utils"
)

// httprouter cannot hold a static segment and a wildcard at the same
// position, so the fixed paths sharing a prefix with :id are routed here.

// GET /api/itineraries/filters and /api/itineraries/:id
func itineraryByID(h *itinerary.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("id") == "filters" {
			h.GetFilterOptions(w, r, ps)
			return
		}
		h.GetItinerary(w, r, ps)
	}
}

// GET /api/itineraries/user/:userId and /api/itineraries/:id/pdf
func itinerarySubresource(h *itinerary.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, sub := ps.ByName("id"), ps.ByName("sub")
		switch {
		case id == "user":
			h.GetUserItineraries(w, r, httprouter.Params{{Key: "userId", Value: sub}})
		case sub == "pdf":
			h.ExportPDF(w, r, httprouter.Params{{Key: "id", Value: id}})
		default:
			utils.RespondWithError(w, http.StatusNotFound, "API endpoint not found")
		}
	}
}

// GET /api/comments/itinerary/:itineraryId
func commentsByItinerary(h *comments.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("id") != "itinerary" {
			utils.RespondWithError(w, http.StatusNotFound, "API endpoint not found")
			return
		}
		h.GetItineraryComments(w, r, httprouter.Params{{Key: "itineraryId", Value: ps.ByName("itineraryId")}})
	}
}
