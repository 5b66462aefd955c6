package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelbuddy/db"
	"travelbuddy/models"
)

type UserStore struct {
	d *data
}

// emailTaken must be called with the lock held
func (s *UserStore) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range s.d.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, ok := s.d.users[u.ID]; ok || s.emailTaken(u.Email, u.ID) {
		return db.ErrDuplicate
	}
	s.d.users[u.ID] = *u
	s.d.userOrder = append(s.d.userOrder, u.ID)
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	for _, u := range s.d.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *UserStore) Get(_ context.Context, id string) (*models.User, error) {
	oid, err := db.ParseID(id)
	if err != nil {
		return nil, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	u, ok := s.d.users[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) List(_ context.Context) ([]models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	out := make([]models.User, 0, len(s.d.userOrder))
	for _, id := range s.d.userOrder {
		out = append(out, s.d.users[id])
	}
	return out, nil
}

func (s *UserStore) Update(_ context.Context, u *models.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	cur, ok := s.d.users[u.ID]
	if !ok {
		return db.ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return db.ErrDuplicate
	}
	cur.Name = u.Name
	cur.Email = u.Email
	cur.Password = u.Password
	cur.Bio = u.Bio
	cur.ProfileImage = u.ProfileImage
	cur.UpdatedAt = u.UpdatedAt
	s.d.users[u.ID] = cur
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	oid, err := db.ParseID(id)
	if err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.users[oid]; !ok {
		return db.ErrNotFound
	}
	delete(s.d.users, oid)
	s.d.userOrder = removeID(s.d.userOrder, oid)
	return nil
}
