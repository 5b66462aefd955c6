package profile

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"travelbuddy/auth"
	"travelbuddy/db"
	"travelbuddy/models"
	"travelbuddy/utils"
)

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	users UserStore
	log   *logrus.Logger
}

func NewHandler(users UserStore, logger *logrus.Logger) *Handler {
	return &Handler{users: users, log: logger}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case db.IsMissing(err):
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, db.ErrDuplicate):
		utils.RespondWithError(w, http.StatusBadRequest, "User already exists")
	default:
		h.log.WithError(err).WithFields(utils.RequestFields(r)).Error("user request failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
	}
}

// GET /api/users
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GET /api/users/:id
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.users.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// PUT /api/users/:id
func (h *Handler) UpdateUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch models.UserPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msgs := utils.Validate(patch); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}

	user, err := h.users.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if patch.Email != nil {
		email := utils.NormalizeEmail(*patch.Email)
		patch.Email = &email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			utils.RespondWithValidation(w, []string{"password is required"})
			return
		}
		hashed, err := auth.HashPassword(*patch.Password)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		patch.Password = &hashed
	}
	patch.Apply(user, time.Now().UTC())

	check := models.RegisterInput{Name: user.Name, Email: user.Email, Password: user.Password}
	if msgs := utils.Validate(check); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.users.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "User removed"})
}
