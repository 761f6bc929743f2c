package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/Dan9191/card-ledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// FundsRequest describes a top-up or withdrawal. Amount is expressed in
// Currency and converted into the card currency. Empty Description, Type
// and a zero Date fall back to the defaults of the operation.
type FundsRequest struct {
	CardNumber  string
	Amount      decimal.Decimal
	Currency    models.Currency
	Description string
	Type        string
	Date        int64
}

// CreateCard issues a new card for userID. The user is not required to exist.
func (s *Service) CreateCard(ctx context.Context, userID int64, name string, currency models.Currency) (models.Card, error) {
	code, err := models.ParseCurrency(string(currency))
	if err != nil {
		return models.Card{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return models.Card{}, err
	}
	defer release()

	number, err := s.allocateNumber()
	if err != nil {
		s.log.Errorf("Failed to allocate card number for user %d: %v", userID, err)
		return models.Card{}, err
	}

	validFrom := s.unixNow()
	card := s.repo.Cards.Create(number, userID, name, code, validFrom, utils.ExpiresEnd(validFrom))

	s.log.WithFields(logrus.Fields{"user_id": userID, "card": utils.MaskCardNumber(number), "currency": code}).Info("Card created")
	return card, nil
}

// allocateNumber draws numbers until one is neither live nor present in the
// operation log, giving up after config.CardNumberAttempts draws
func (s *Service) allocateNumber() (string, error) {
	for i := 0; i < s.config.CardNumberAttempts; i++ {
		number, err := s.newNumber()
		if err != nil {
			return "", fmt.Errorf("failed to generate card number: %w", err)
		}
		if !s.repo.Cards.Exists(number) && !s.repo.Operations.Has(number) {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrNumberSpaceExhausted, s.config.CardNumberAttempts)
}

// CardsByUser lists the cards owned by userID
func (s *Service) CardsByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.repo.Cards.FindByUserID(userID), nil
}

// CardByNumber retrieves a card
func (s *Service) CardByNumber(ctx context.Context, number string) (models.Card, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return models.Card{}, err
	}
	defer release()

	card, ok := s.repo.Cards.FindByNumber(number)
	if !ok {
		return models.Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, number)
	}
	return card, nil
}

// UpdateCard applies the name and active flag of patch. Balance, owner,
// currency and validity are not updatable.
func (s *Service) UpdateCard(ctx context.Context, patch models.CardPatch) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	card, ok := s.repo.Cards.FindByNumber(patch.Number)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, patch.Number)
	}
	if patch.Name != nil {
		card.Name = *patch.Name
	}
	if patch.Active != nil {
		card.Active = *patch.Active
	}
	s.repo.Cards.Update(card)

	s.log.Infof("Card %s updated", utils.MaskCardNumber(card.Number))
	return nil
}

// DeleteCard removes a card. Its operation history is kept.
func (s *Service) DeleteCard(ctx context.Context, number string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	return s.deleteCard(number)
}

func (s *Service) deleteCard(number string) error {
	if _, ok := s.repo.Cards.Delete(number); !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, number)
	}
	s.log.Infof("Card %s deleted", utils.MaskCardNumber(number))
	return nil
}

// History returns the operations of a card in the order they happened.
// Unknown numbers yield an empty history.
func (s *Service) History(ctx context.Context, number string) ([]models.Operation, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.repo.Operations.History(number), nil
}

// Withdraw debits a card by req.Amount converted into the card currency
func (s *Service) Withdraw(ctx context.Context, req FundsRequest) error {
	if req.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	currency, err := models.ParseCurrency(string(req.Currency))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, req.Currency)
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	card, ok := s.repo.Cards.FindByNumber(req.CardNumber)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, req.CardNumber)
	}
	total, err := s.converter.Convert(req.Amount, currency, card.Currency)
	if err != nil {
		return err
	}
	now := s.unixNow()
	if err := canWithdraw(card, total, now); err != nil {
		s.log.WithFields(logrus.Fields{"card": utils.MaskCardNumber(card.Number), "amount": total}).Debugf("Withdrawal rejected: %v", err)
		return err
	}

	s.apply(card, total.Neg(), orDefault(req.Description, s.messages.withdraw), orDefault(req.Type, models.OperationWithdraw), orNow(req.Date, now))
	return nil
}

// TopUp credits a card by req.Amount converted into the card currency
func (s *Service) TopUp(ctx context.Context, req FundsRequest) error {
	if req.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	currency, err := models.ParseCurrency(string(req.Currency))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, req.Currency)
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	card, ok := s.repo.Cards.FindByNumber(req.CardNumber)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, req.CardNumber)
	}
	total, err := s.converter.Convert(req.Amount, currency, card.Currency)
	if err != nil {
		return err
	}
	now := s.unixNow()
	if err := canTopUp(card, now); err != nil {
		s.log.WithFields(logrus.Fields{"card": utils.MaskCardNumber(card.Number), "amount": total}).Debugf("Top-up rejected: %v", err)
		return err
	}

	s.apply(card, total, orDefault(req.Description, s.messages.topUp), orDefault(req.Type, models.OperationTopUp), orNow(req.Date, now))
	return nil
}

// Transfer moves amount, expressed in the source card currency, to the target
// card. Both legs are validated before either is applied, and both are
// applied under the same lock.
func (s *Service) Transfer(ctx context.Context, sourceNumber, targetNumber string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if sourceNumber == targetNumber {
		return ErrSameCard
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	now := s.unixNow()

	source, ok := s.repo.Cards.FindByNumber(sourceNumber)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, sourceNumber)
	}
	if err := canWithdraw(source, amount, now); err != nil {
		return fmt.Errorf("card %s: %w", utils.MaskCardNumber(sourceNumber), err)
	}

	target, ok := s.repo.Cards.FindByNumber(targetNumber)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, targetNumber)
	}
	credit, err := s.converter.Convert(amount, source.Currency, target.Currency)
	if err != nil {
		return err
	}
	if err := canTopUp(target, now); err != nil {
		return fmt.Errorf("card %s: %w", utils.MaskCardNumber(targetNumber), err)
	}

	s.apply(source, amount.Neg(),
		fmt.Sprintf(s.messages.transferTo, amount, source.Currency, utils.MaskCardNumber(targetNumber)),
		models.OperationTransferTo, now)
	s.apply(target, credit,
		fmt.Sprintf(s.messages.transferFrom, credit, target.Currency, utils.MaskCardNumber(sourceNumber)),
		models.OperationTransferFrom, now)

	s.log.WithFields(logrus.Fields{
		"source": utils.MaskCardNumber(sourceNumber),
		"target": utils.MaskCardNumber(targetNumber),
		"debit":  amount.String() + " " + string(source.Currency),
		"credit": credit.String() + " " + string(target.Currency),
	}).Info("Transfer completed")
	return nil
}

// apply changes the balance by delta and records the operation.
// Callers must hold the lock and have validated the change.
func (s *Service) apply(card models.Card, delta decimal.Decimal, description, opType string, date int64) {
	balance := card.Balance.Add(delta)
	if balance.IsNegative() && delta.IsNegative() {
		panic(fmt.Sprintf("service: debit of %s would overdraw card %s", delta.Neg(), card.Number))
	}
	s.repo.Cards.SetBalance(card.Number, balance)
	s.repo.Operations.Append(card.Number, models.Operation{
		Timestamp:   date,
		Description: description,
		Type:        opType,
		Amount:      delta,
	})
	s.log.WithFields(logrus.Fields{
		"card":    utils.MaskCardNumber(card.Number),
		"type":    opType,
		"amount":  delta.String(),
		"balance": balance.String(),
	}).Info("Operation recorded")
}

func canTopUp(card models.Card, now int64) error {
	if !card.Active {
		return ErrCardInactive
	}
	if card.Expired(now) {
		return ErrCardExpired
	}
	return nil
}

func canWithdraw(card models.Card, amount decimal.Decimal, now int64) error {
	if err := canTopUp(card, now); err != nil {
		return err
	}
	if card.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orNow(date, now int64) int64 {
	if date == 0 {
		return now
	}
	return date
}
