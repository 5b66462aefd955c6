package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"travelbuddy/db"
	"travelbuddy/middleware"
	"travelbuddy/models"
	"travelbuddy/utils"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Handler struct {
	users UserStore
	log   *logrus.Logger
	now   func() time.Time
}

func NewHandler(users UserStore, logger *logrus.Logger) *Handler {
	return &Handler{
		users: users,
		log:   logger,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// HashPassword returns the bcrypt hash stored in place of the plain password
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// POST /api/users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.RegisterInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Email = utils.NormalizeEmail(in.Email)
	if msgs := utils.Validate(in); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		h.log.WithError(err).WithFields(utils.RequestFields(r)).Error("hash password")
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	now := h.now()
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     hashed,
		ProfileImage: in.ProfileImage,
		Bio:          in.Bio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.ProfileImage == "" {
		user.ProfileImage = models.DefaultProfileImage
	}
	if user.Bio == "" {
		user.Bio = models.DefaultBio
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			utils.RespondWithError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.log.WithError(err).WithFields(utils.RequestFields(r)).Error("register user")
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	h.log.WithField("user", user.ID.Hex()).Info("user registered")
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// POST /api/users/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.LoginInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msgs := utils.Validate(in); msgs != nil {
		utils.RespondWithValidation(w, msgs)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), utils.NormalizeEmail(in.Email))
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			h.log.WithError(err).WithFields(utils.RequestFields(r)).Error("login lookup")
			utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
			return
		}
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.IssueToken(user.ID.Hex(), user.Name, h.now())
	if err != nil {
		h.log.WithError(err).WithFields(utils.RequestFields(r)).Error("issue token")
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"user": user, "token": token})
}
