package comments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/db"
	"travelbuddy/models"
	"travelbuddy/rdx"
	"travelbuddy/utils"
)

type Store interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByItinerary(ctx context.Context, itineraryID string) ([]models.Comment, error)
	Get(ctx context.Context, id string) (*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) (*models.Comment, error)
}

// Counter keeps an itinerary's comment count in step with its comments
type Counter interface {
	AdjustComments(ctx context.Context, id primitive.ObjectID, delta int) error
}

type Handler struct {
	store        Store
	counter      Counter
	cache        rdx.Cache
	log          *logrus.Logger
	defaultOwner primitive.ObjectID
	now          func() time.Time
}

func NewHandler(store Store, counter Counter, cache rdx.Cache, logger *logrus.Logger, defaultOwner string) (*Handler, error) {
	owner, err := db.ParseID(defaultOwner)
	if err != nil {
		return nil, fmt.Errorf("default owner %q: %w", defaultOwner, err)
	}
	if cache == nil {
		cache = rdx.Noop{}
	}
	return &Handler{
		store:        store,
		counter:      counter,
		cache:        cache,
		log:          logger,
		defaultOwner: owner,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if db.IsMissing(err) {
		utils.RespondWithError(w, http.StatusNotFound, notFound)
		return
	}
	h.log.WithError(err).WithFields(utils.RequestFields(r)).Error("comment request failed")
	utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
}

// author picks the bearer-token user, then the body's userId, then the placeholder
func (h *Handler) author(r *http.Request, bodyUserID string) primitive.ObjectID {
	for _, candidate := range []string{utils.GetUserIDFromRequest(r), bodyUserID} {
		if id, err := db.ParseID(strings.TrimSpace(candidate)); err == nil {
			return id
		}
	}
	return h.defaultOwner
}

// POST /api/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.CommentInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msgs := utils.Validate(in); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}
	itineraryID, err := db.ParseID(in.ItineraryID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}

	// the increment doubles as the existence check
	if err := h.counter.AdjustComments(r.Context(), itineraryID, 1); err != nil {
		h.fail(w, r, err, "Itinerary not found")
		return
	}

	now := h.now()
	c := &models.Comment{
		Content:     in.Content,
		UserID:      h.author(r, in.UserID),
		ItineraryID: itineraryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.Create(r.Context(), c); err != nil {
		if cerr := h.counter.AdjustComments(context.WithoutCancel(r.Context()), itineraryID, -1); cerr != nil {
			h.log.WithError(cerr).WithFields(utils.RequestFields(r)).WithField("itinerary", itineraryID.Hex()).Error("compensating comment count failed")
		}
		h.fail(w, r, err, "Comment not found")
		return
	}
	h.cache.Invalidate(r.Context(), itineraryID.Hex())

	if stored, err := h.store.Get(r.Context(), c.ID.Hex()); err == nil {
		c = stored
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// PUT /api/comments/:id
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var in models.CommentUpdate
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msgs := utils.Validate(in); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}

	if err := h.store.UpdateContent(r.Context(), id, in.Content); err != nil {
		h.fail(w, r, err, "Comment not found")
		return
	}
	c, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Comment not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// DELETE /api/comments/:id
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, err := h.store.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err, "Comment not found")
		return
	}

	// a parent deleted earlier makes this a no-op
	if err := h.counter.AdjustComments(r.Context(), c.ItineraryID, -1); err != nil && !errors.Is(err, db.ErrNotFound) {
		h.log.WithError(err).WithFields(utils.RequestFields(r)).WithField("itinerary", c.ItineraryID.Hex()).Error("decrement comment count")
	}
	h.cache.Invalidate(r.Context(), c.ItineraryID.Hex())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Comment removed"})
}
