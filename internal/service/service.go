package service

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/card-ledger/internal/config"
	"github.com/Dan9191/card-ledger/internal/integrations/rates"
	"github.com/Dan9191/card-ledger/internal/repository"
	"github.com/Dan9191/card-ledger/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service handles ledger business logic.
//
// All stores are guarded by a single lock: every operation, reads included,
// runs alone, so a transfer never exposes a half-applied balance. Waiting for
// the lock is bounded by cfg.LockTimeout.
type Service struct {
	repo      *repository.Repository
	log       *logrus.Logger
	config    *config.Config
	converter *Converter
	messages  messages

	lock       chan struct{}
	now        func() time.Time
	newNumber  func() (string, error)
	compare    func(hash, password []byte) error
	removeCard func(number string) error

	decoyOnce sync.Once
	decoyHash []byte
	decoyErr  error
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces the wall clock used for timestamps and expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNumberGenerator replaces the random card number source
func WithNumberGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newNumber = gen }
}

// WithRates starts the service with the given table instead of the built-in one
func WithRates(table rates.Table) Option {
	return func(s *Service) {
		if err := s.converter.SetRates(table); err != nil {
			s.log.Warnf("Ignoring invalid rate table: %v", err)
		}
	}
}

// NewService initializes a new service over repo
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, opts ...Option) *Service {
	converter, err := NewConverter(rates.Default())
	if err != nil {
		panic(err)
	}
	s := &Service{
		repo:      repo,
		log:       log,
		config:    cfg,
		converter: converter,
		messages:  messagesFor(cfg.Locale),
		lock:      make(chan struct{}, 1),
		now:       time.Now,
		newNumber: func() (string, error) {
			return utils.GenerateCardNumber(utils.CardNumberMin, utils.CardNumberMax)
		},
		compare: bcrypt.CompareHashAndPassword,
	}
	s.removeCard = s.deleteCard
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// acquire takes the ledger lock; the returned func releases it
func (s *Service) acquire(ctx context.Context) (func(), error) {
	timer := time.NewTimer(s.config.LockTimeout)
	defer timer.Stop()

	select {
	case s.lock <- struct{}{}:
		return func() { <-s.lock }, nil
	case <-timer.C:
		s.log.Warnf("Ledger lock not acquired within %s", s.config.LockTimeout)
		return nil, ErrBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetRates replaces the conversion table used by subsequent operations
func (s *Service) SetRates(table rates.Table) error {
	if err := s.converter.SetRates(table); err != nil {
		return err
	}
	s.log.Info("Currency rates updated")
	return nil
}

// Rates returns the conversion table currently in use
func (s *Service) Rates() rates.Table {
	return s.converter.Rates()
}

func (s *Service) unixNow() int64 {
	return s.now().Unix()
}
