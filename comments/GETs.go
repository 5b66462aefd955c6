package comments

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelbuddy/utils"
)

// GET /api/comments/itinerary/:itineraryId
func (h *Handler) GetItineraryComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	comments, err := h.store.ListByItinerary(r.Context(), ps.ByName("itineraryId"))
	if err != nil {
		h.fail(w, r, err, "Itinerary not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, comments)
}

// GET /api/comments/:id
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, err := h.store.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err, "Comment not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}
