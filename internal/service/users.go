package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/Dan9191/card-ledger/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers a user with a hashed password.
// The phone index is last-write-wins: a repeated phone now resolves to the new user.
func (s *Service) CreateUser(ctx context.Context, u models.NewUser) (models.User, error) {
	hash, err := s.hashPassword(u.Password)
	if err != nil {
		return models.User{}, err
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return models.User{}, err
	}
	defer release()

	if _, taken := s.repo.Users.FindByPhone(u.Phone); taken {
		s.log.Warnf("Phone %s re-registered, lookups now resolve to the new user", u.Phone)
	}
	user := s.repo.Users.Create(u.FirstName, u.LastName, u.Birthday, u.Phone, hash)

	s.log.Infof("User registered: %d", user.ID)
	return user, nil
}

// Login checks a phone/password pair. Unknown phones and wrong passwords
// both yield ErrBadCredentials and both cost one hash comparison.
func (s *Service) Login(ctx context.Context, phone, password string) (models.User, error) {
	user, err := s.UserByPhone(ctx, phone)
	if errors.Is(err, ErrUserNotFound) {
		decoy, err := s.decoy()
		if err != nil {
			return models.User{}, err
		}
		_ = s.compare(decoy, []byte(password))
		return models.User{}, ErrBadCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrBadCredentials
	}

	s.log.Infof("User logged in: %d", user.ID)
	return user, nil
}

// UserByID retrieves a user by id
func (s *Service) UserByID(ctx context.Context, id int64) (models.User, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return models.User{}, err
	}
	defer release()

	user, ok := s.repo.Users.FindByID(id)
	if !ok {
		return models.User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return user, nil
}

// UserByPhone retrieves a user by phone
func (s *Service) UserByPhone(ctx context.Context, phone string) (models.User, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return models.User{}, err
	}
	defer release()

	user, ok := s.repo.Users.FindByPhone(phone)
	if !ok {
		return models.User{}, fmt.Errorf("%w: phone %s", ErrUserNotFound, phone)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of patch. A new phone is re-indexed
// together with the field and must not belong to another user.
func (s *Service) UpdateUser(ctx context.Context, patch models.UserPatch) error {
	var hash string
	if patch.Password != nil {
		var err error
		if hash, err = s.hashPassword(*patch.Password); err != nil {
			return err
		}
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	user, ok := s.repo.Users.FindByID(patch.ID)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, patch.ID)
	}
	if patch.Phone != nil && *patch.Phone != user.Phone {
		if owner, taken := s.repo.Users.FindByPhone(*patch.Phone); taken && owner.ID != user.ID {
			return fmt.Errorf("%w: %s", ErrPhoneTaken, *patch.Phone)
		}
		user.Phone = *patch.Phone
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Birthday != nil {
		user.Birthday = *patch.Birthday
	}
	if patch.Password != nil {
		user.PasswordHash = hash
	}
	s.repo.Users.Update(user)

	s.log.Infof("User updated: %d", user.ID)
	return nil
}

// DeleteUser removes every card a user owns, then the user. The first card
// that fails to delete stops the cascade and the user is kept.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := s.repo.Users.FindByID(id); !ok {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}

	cards := s.repo.Cards.FindByUserID(id)
	for i, card := range cards {
		if err := s.removeCard(card.Number); err != nil {
			s.log.Errorf("Cascade delete for user %d stopped after %d of %d cards: %v", id, i, len(cards), err)
			return fmt.Errorf("delete cards of user %d: %w", id, err)
		}
	}
	s.repo.Users.Delete(id)

	s.log.Infof("User deleted: %d (%d cards)", id, len(cards))
	return nil
}

// decoy returns a hash of a random secret at the configured cost, compared
// against when the phone is unknown
func (s *Service) decoy() ([]byte, error) {
	s.decoyOnce.Do(func() {
		secret := make([]byte, 32)
		if _, s.decoyErr = rand.Read(secret); s.decoyErr != nil {
			return
		}
		s.decoyHash, s.decoyErr = bcrypt.GenerateFromPassword(secret, s.config.BcryptCost)
	})
	if s.decoyErr != nil {
		return nil, fmt.Errorf("failed to prepare credential check: %w", s.decoyErr)
	}
	return s.decoyHash, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
