package itinerary

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/db"
	"travelbuddy/models"
	"travelbuddy/rdx"
	"travelbuddy/utils"
)

const notFoundMsg = "Itinerary not found"

// Store is the persistence contract the handlers need. Both the MongoDB and
// in-memory stores satisfy it.
type Store interface {
	List(ctx context.Context, filter models.ItineraryFilter) ([]models.Itinerary, error)
	ListByUser(ctx context.Context, userID string) ([]models.Itinerary, error)
	Get(ctx context.Context, id string) (*models.Itinerary, error)
	Create(ctx context.Context, it *models.Itinerary) error
	Update(ctx context.Context, it *models.Itinerary) error
	Delete(ctx context.Context, id string) error
	FilterOptions(ctx context.Context) (models.FilterOptions, error)
}

type Handler struct {
	store        Store
	cache        rdx.Cache
	log          *logrus.Logger
	defaultOwner primitive.ObjectID
	frontendURL  string
	now          func() time.Time
}

// NewHandler wires the itinerary endpoints. defaultOwner owns itineraries
// created without a bearer token.
func NewHandler(store Store, cache rdx.Cache, logger *logrus.Logger, defaultOwner, frontendURL string) (*Handler, error) {
	owner, err := db.ParseID(defaultOwner)
	if err != nil {
		return nil, fmt.Errorf("default owner %q: %w", defaultOwner, err)
	}
	if cache == nil {
		cache = rdx.Noop{}
	}
	return &Handler{
		store:        store,
		cache:        cache,
		log:          logger,
		defaultOwner: owner,
		frontendURL:  frontendURL,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// fail maps store errors onto responses
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if db.IsMissing(err) {
		utils.RespondWithError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	h.log.WithError(err).WithFields(utils.RequestFields(r)).Error("itinerary request failed")
	utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
}

// pathID returns the canonical hex form of the :id parameter so cache keys
// match whatever case the caller used. A malformed id answers 404.
func (h *Handler) pathID(w http.ResponseWriter, ps httprouter.Params) (string, bool) {
	oid, err := db.ParseID(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, notFoundMsg)
		return "", false
	}
	return oid.Hex(), true
}

func (h *Handler) owner(r *http.Request) primitive.ObjectID {
	if id, err := db.ParseID(utils.GetUserIDFromRequest(r)); err == nil {
		return id
	}
	return h.defaultOwner
}

// POST /api/itineraries
func (h *Handler) CreateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.ItineraryInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msgs := utils.Validate(in); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}

	it := models.NewItinerary(in, h.owner(r), h.now())
	if err := h.store.Create(r.Context(), it); err != nil {
		h.fail(w, r, err)
		return
	}

	// re-read so the response carries the expanded owner
	if stored, err := h.store.Get(r.Context(), it.ID.Hex()); err == nil {
		it = stored
	}
	utils.RespondWithJSON(w, http.StatusCreated, it)
}

// PUT /api/itineraries/:id
func (h *Handler) UpdateItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.pathID(w, ps)
	if !ok {
		return
	}

	var patch models.ItineraryPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	it, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch.Apply(it, h.now())
	if msgs := utils.Validate(it.Input()); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}

	if err := h.store.Update(r.Context(), it); err != nil {
		h.fail(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)

	updated, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/itineraries/:id
func (h *Handler) DeleteItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.pathID(w, ps)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary removed"})
}
