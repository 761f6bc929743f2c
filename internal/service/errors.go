package service

import (
	"errors"
	"fmt"

	"github.com/Dan9191/card-ledger/internal/models"
)

// Error kinds. Every ledger error matches exactly one of these with errors.Is.
var (
	// ErrNotFound means an unknown user id, phone or card number.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the request was understood but breaks a ledger rule.
	ErrValidation = errors.New("validation failed")
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrCardNotFound = fmt.Errorf("card %w", ErrNotFound)

	ErrInsufficientFunds   = fmt.Errorf("%w: not enough funds on card balance", ErrValidation)
	ErrCardInactive        = fmt.Errorf("%w: card is not active", ErrValidation)
	ErrCardExpired         = fmt.Errorf("%w: card is expired", ErrValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrSameCard            = fmt.Errorf("%w: source and target card are the same", ErrValidation)
	ErrPhoneTaken          = fmt.Errorf("%w: phone is registered to another user", ErrValidation)
	ErrInvalidCurrencyPair = fmt.Errorf("%w: invalid currency pair", ErrValidation)
	ErrUnsupportedCurrency = fmt.Errorf("%w: %w", ErrValidation, models.ErrUnsupportedCurrency)

	// ErrBadCredentials does not say whether the phone or the password was wrong.
	ErrBadCredentials = errors.New("login or password is incorrect")
	// ErrBusy is returned when the ledger lock could not be taken within the configured timeout.
	ErrBusy = errors.New("ledger is busy, try again")
	// ErrNumberSpaceExhausted is returned when no free card number was found within the retry bound.
	ErrNumberSpaceExhausted = errors.New("card number space exhausted")
)
