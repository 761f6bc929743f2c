package repository

import (
	"fmt"

	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// CardStore indexes cards by number and by owning user
type CardStore struct {
	byNumber map[string]*models.Card
	byUserID map[int64][]*models.Card
}

// NewCardStore initializes an empty card store
func NewCardStore() *CardStore {
	return &CardStore{
		byNumber: make(map[string]*models.Card),
		byUserID: make(map[int64][]*models.Card),
	}
}

// Create issues a card with a zero balance. A number that is already
// registered is a caller bug and panics.
func (s *CardStore) Create(number string, userID int64, name string, currency models.Currency, validFrom, expiresEnd int64) models.Card {
	if _, exists := s.byNumber[number]; exists {
		panic(fmt.Sprintf("repository: card %s already registered", number))
	}
	card := &models.Card{
		Number:     number,
		Name:       name,
		ValidFrom:  validFrom,
		ExpiresEnd: expiresEnd,
		Balance:    decimal.Zero,
		Active:     true,
		Currency:   currency,
		UserID:     userID,
	}
	s.byNumber[number] = card
	s.byUserID[userID] = append(s.byUserID[userID], card)
	return *card
}

// Exists reports whether the number belongs to a live card
func (s *CardStore) Exists(number string) bool {
	_, ok := s.byNumber[number]
	return ok
}

// FindByNumber retrieves a card by number
func (s *CardStore) FindByNumber(number string) (models.Card, bool) {
	card, ok := s.byNumber[number]
	if !ok {
		return models.Card{}, false
	}
	return *card, true
}

// FindByUserID lists the cards of a user in issue order
func (s *CardStore) FindByUserID(userID int64) []models.Card {
	cards := s.byUserID[userID]
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, *c)
	}
	return out
}

// SetBalance stores a new balance for a card
func (s *CardStore) SetBalance(number string, balance decimal.Decimal) bool {
	card, ok := s.byNumber[number]
	if !ok {
		return false
	}
	card.Balance = balance
	return true
}

// Update overwrites the mutable attributes (name, active) of the stored card
func (s *CardStore) Update(card models.Card) bool {
	stored, ok := s.byNumber[card.Number]
	if !ok {
		return false
	}
	stored.Name = card.Name
	stored.Active = card.Active
	return true
}

// Delete removes a card from both indexes
func (s *CardStore) Delete(number string) (models.Card, bool) {
	card, ok := s.byNumber[number]
	if !ok {
		return models.Card{}, false
	}
	delete(s.byNumber, number)

	owned := s.byUserID[card.UserID]
	kept := owned[:0]
	for _, c := range owned {
		if c.Number != number {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(s.byUserID, card.UserID)
	} else {
		s.byUserID[card.UserID] = kept
	}
	return *card, true
}
