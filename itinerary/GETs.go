package itinerary

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelbuddy/db"
	"travelbuddy/models"
	"travelbuddy/utils"
)

// GET /api/itineraries
func (h *Handler) GetItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	itineraries, err := h.store.List(r.Context(), parseFilter(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, itineraries)
}

// GET /api/itineraries/:id
func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.pathID(w, ps)
	if !ok {
		return
	}
	if it, ok := h.cache.GetItinerary(r.Context(), id); ok {
		utils.RespondWithJSON(w, http.StatusOK, it)
		return
	}

	it, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.cache.SetItinerary(r.Context(), it)
	utils.RespondWithJSON(w, http.StatusOK, it)
}

// GET /api/itineraries/user/:userId
func (h *Handler) GetUserItineraries(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	itineraries, err := h.store.ListByUser(r.Context(), ps.ByName("userId"))
	if errors.Is(err, db.ErrInvalidID) {
		// no user can own a malformed id
		utils.RespondWithJSON(w, http.StatusOK, []models.Itinerary{})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, itineraries)
}

// GET /api/itineraries/filters
func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts, err := h.store.FilterOptions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, opts)
}
