package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/card-ledger/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func mustUser(t *testing.T, s *Service, phone, password string) models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), models.NewUser{
		FirstName: "Maryna",
		LastName:  "Kovalenko",
		Birthday:  "2001.10.03",
		Phone:     phone,
		Password:  password,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func strPtr(s string) *string { return &s }

func TestCreateUserAndLookups(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u1 := mustUser(t, s, "+380683333333", "maryna2001")
	u2 := mustUser(t, s, "+380685555555", "dmytro2010")
	if u1.ID != 1 || u2.ID != 2 {
		t.Fatalf("ids=%d,%d want monotonic 1,2", u1.ID, u2.ID)
	}
	if u1.PasswordHash == "" || u1.PasswordHash == "maryna2001" {
		t.Fatal("password stored in clear")
	}

	got, err := s.UserByID(ctx, u2.ID)
	if err != nil || got.Phone != "+380685555555" {
		t.Fatalf("UserByID=%+v,%v", got, err)
	}
	got, err = s.UserByPhone(ctx, "+380683333333")
	if err != nil || got.ID != u1.ID {
		t.Fatalf("UserByPhone=%+v,%v", got, err)
	}

	if _, err := s.UserByID(ctx, 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
	if _, err := s.UserByPhone(ctx, "+000"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
}

func TestCreateUserPhoneLastWriteWins(t *testing.T) {
	s := newTestService(t)
	mustUser(t, s, "+380681111111", "a")
	second := mustUser(t, s, "+380681111111", "b")

	got, err := s.UserByPhone(context.Background(), "+380681111111")
	if err != nil || got.ID != second.ID {
		t.Fatalf("UserByPhone=%+v,%v want user %d", got, err, second.ID)
	}
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	user := mustUser(t, s, "+380689005030", "kotikMeow11+")

	got, err := s.Login(ctx, "+380689005030", "kotikMeow11+")
	if err != nil || got.ID != user.ID {
		t.Fatalf("Login=%+v,%v", got, err)
	}

	_, unknownPhone := s.Login(ctx, "+380000000000", "kotikMeow11+")
	_, wrongPassword := s.Login(ctx, "+380689005030", "nope")
	if !errors.Is(unknownPhone, ErrBadCredentials) || !errors.Is(wrongPassword, ErrBadCredentials) {
		t.Fatalf("errors=%v / %v want ErrBadCredentials", unknownPhone, wrongPassword)
	}
	if unknownPhone.Error() != wrongPassword.Error() {
		t.Fatal("login errors reveal whether the phone is registered")
	}
}

func TestLoginComparesHashForUnknownPhone(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustUser(t, s, "+380689005030", "kotikMeow11+")

	var hashes [][]byte
	s.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	if _, err := s.Login(ctx, "+380000000000", "kotikMeow11+"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("err=%v want ErrBadCredentials", err)
	}
	if _, err := s.Login(ctx, "+380689005030", "nope"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("err=%v want ErrBadCredentials", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("hash comparisons=%d want one per login", len(hashes))
	}
	cost, err := bcrypt.Cost(hashes[0])
	if err != nil || cost != s.config.BcryptCost {
		t.Fatalf("decoy hash cost=%d,%v want %d", cost, err, s.config.BcryptCost)
	}
}

func TestLoginAfterLaterHolderChangesPhone(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	first := mustUser(t, s, "+1", "a")
	second := mustUser(t, s, "+1", "b")

	if err := s.UpdateUser(ctx, models.UserPatch{ID: second.ID, Phone: strPtr("+2")}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Login(ctx, "+1", "a")
	if err != nil || got.ID != first.ID {
		t.Fatalf("Login=%+v,%v want user %d", got, err, first.ID)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	user := mustUser(t, s, "+380681111111", "old")

	err := s.UpdateUser(ctx, models.UserPatch{
		ID:        user.ID,
		FirstName: strPtr("Cat"),
		Phone:     strPtr("+380689005030"),
		Password:  strPtr("new"),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := s.UserByID(ctx, user.ID)
	if got.FirstName != "Cat" || got.LastName != "Kovalenko" || got.Phone != "+380689005030" {
		t.Fatalf("user=%+v", got)
	}
	if _, err := s.UserByPhone(ctx, "+380681111111"); !errors.Is(err, ErrUserNotFound) {
		t.Fatal("old phone still resolves")
	}
	if byPhone, err := s.UserByPhone(ctx, "+380689005030"); err != nil || byPhone.ID != user.ID {
		t.Fatal("new phone not indexed")
	}
	if _, err := s.Login(ctx, "+380689005030", "old"); !errors.Is(err, ErrBadCredentials) {
		t.Fatal("old password still accepted")
	}
	if _, err := s.Login(ctx, "+380689005030", "new"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestUpdateUserErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustUser(t, s, "+1", "a")
	mustUser(t, s, "+2", "b")

	if err := s.UpdateUser(ctx, models.UserPatch{ID: a.ID, Phone: strPtr("+2")}); !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("err=%v want ErrPhoneTaken", err)
	}
	if got, _ := s.UserByID(ctx, a.ID); got.Phone != "+1" {
		t.Fatalf("phone changed by rejected update: %s", got.Phone)
	}
	if err := s.UpdateUser(ctx, models.UserPatch{ID: a.ID, Phone: strPtr("+1")}); err != nil {
		t.Fatalf("keeping own phone rejected: %v", err)
	}
	if err := s.UpdateUser(ctx, models.UserPatch{ID: 42, FirstName: strPtr("x")}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	owner := mustUser(t, s, "+380682222222", "bogdan1970")
	other := mustUser(t, s, "+380683333333", "maryna2001")

	var owned []models.Card
	for _, currency := range []models.Currency{models.USD, models.UAH, models.UAH, models.EUR} {
		owned = append(owned, mustCard(t, s, owner.ID, currency))
	}
	kept := mustCard(t, s, other.ID, models.EUR)

	if err := s.DeleteUser(ctx, owner.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UserByID(ctx, owner.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatal("user still resolves by id")
	}
	if _, err := s.UserByPhone(ctx, owner.Phone); !errors.Is(err, ErrUserNotFound) {
		t.Fatal("user still resolves by phone")
	}
	for _, c := range owned {
		if _, err := s.CardByNumber(ctx, c.Number); !errors.Is(err, ErrCardNotFound) {
			t.Fatalf("card %s survived cascade", c.Number)
		}
	}
	if cards, _ := s.CardsByUser(ctx, owner.ID); len(cards) != 0 {
		t.Fatalf("user index still lists %d cards", len(cards))
	}
	if _, err := s.CardByNumber(ctx, kept.Number); err != nil {
		t.Fatalf("card of another user deleted: %v", err)
	}

	if err := s.DeleteUser(ctx, owner.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
}

func TestDeleteUserStopsAtFirstFailedCard(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	owner := mustUser(t, s, "+380682222222", "bogdan1970")
	for i := 0; i < 3; i++ {
		mustCard(t, s, owner.ID, models.UAH)
	}

	failure := errors.New("card store unavailable")
	calls := 0
	s.removeCard = func(number string) error {
		calls++
		if calls == 2 {
			return failure
		}
		return s.deleteCard(number)
	}

	err := s.DeleteUser(ctx, owner.ID)
	if !errors.Is(err, failure) {
		t.Fatalf("err=%v want wrapped failure", err)
	}
	if calls != 2 {
		t.Fatalf("cascade continued after failure: %d calls", calls)
	}
	if _, err := s.UserByID(ctx, owner.ID); err != nil {
		t.Fatalf("user removed despite failed cascade: %v", err)
	}
	if cards, _ := s.CardsByUser(ctx, owner.ID); len(cards) != 2 {
		t.Fatalf("cards left=%d want 2", len(cards))
	}
}

func TestDeleteUserKeepsPhoneOfLaterUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	first := mustUser(t, s, "+1", "a")
	second := mustUser(t, s, "+1", "b")

	if err := s.DeleteUser(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	got, err := s.UserByPhone(ctx, "+1")
	if err != nil || got.ID != second.ID {
		t.Fatalf("UserByPhone=%+v,%v", got, err)
	}
}
