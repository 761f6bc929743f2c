package repository

import (
	"fmt"

	"github.com/Dan9191/card-ledger/internal/models"
)

// UserStore indexes users by id and by phone
type UserStore struct {
	nextID  int64
	byID    map[int64]*models.User
	byPhone map[string]*models.User
}

// NewUserStore initializes an empty user store
func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[int64]*models.User),
		byPhone: make(map[string]*models.User),
	}
}

// Create registers a user under the next id. The phone index is last-write-wins.
func (s *UserStore) Create(firstName, lastName, birthday, phone, passwordHash string) models.User {
	s.nextID++
	user := &models.User{
		ID:           s.nextID,
		FirstName:    firstName,
		LastName:     lastName,
		Birthday:     birthday,
		Phone:        phone,
		PasswordHash: passwordHash,
	}
	if _, exists := s.byID[user.ID]; exists {
		panic(fmt.Sprintf("repository: user id %d already registered", user.ID))
	}
	s.byID[user.ID] = user
	s.byPhone[phone] = user
	return *user
}

// FindByID retrieves a user by id
func (s *UserStore) FindByID(id int64) (models.User, bool) {
	user, ok := s.byID[id]
	if !ok {
		return models.User{}, false
	}
	return *user, true
}

// FindByPhone retrieves a user by phone
func (s *UserStore) FindByPhone(phone string) (models.User, bool) {
	user, ok := s.byPhone[phone]
	if !ok {
		return models.User{}, false
	}
	return *user, true
}

// Update overwrites the mutable attributes of the stored user and keeps the
// phone index in sync. It reports false if the id is unknown.
func (s *UserStore) Update(user models.User) bool {
	stored, ok := s.byID[user.ID]
	if !ok {
		return false
	}
	oldPhone := stored.Phone
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Birthday = user.Birthday
	stored.Phone = user.Phone
	stored.PasswordHash = user.PasswordHash
	if oldPhone != user.Phone {
		s.byPhone[user.Phone] = stored
		s.releasePhone(oldPhone, stored)
	}
	return true
}

// Delete removes a user from both indexes. A phone entry pointing at this
// user passes to another holder of the phone when there is one.
func (s *UserStore) Delete(id int64) (models.User, bool) {
	user, ok := s.byID[id]
	if !ok {
		return models.User{}, false
	}
	delete(s.byID, id)
	s.releasePhone(user.Phone, user)
	return *user, true
}

// releasePhone moves the phone entry held by user to the most recently
// registered user still carrying that phone, or drops it
func (s *UserStore) releasePhone(phone string, user *models.User) {
	if s.byPhone[phone] != user {
		return
	}
	var heir *models.User
	for _, u := range s.byID {
		if u != user && u.Phone == phone && (heir == nil || u.ID > heir.ID) {
			heir = u
		}
	}
	if heir == nil {
		delete(s.byPhone, phone)
		return
	}
	s.byPhone[phone] = heir
}
