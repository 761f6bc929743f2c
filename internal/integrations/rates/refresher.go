package rates

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Loader produces a fresh rate table
type Loader interface {
	Load() (Table, error)
}

// Refresher reloads the rate table on a cron schedule and hands every
// successfully loaded table to apply. A failed reload keeps the current rates.
type Refresher struct {
	cron   *cron.Cron
	loader Loader
	apply  func(Table) error
	log    *logrus.Logger
}

// NewRefresher initializes a refresher; call Start to schedule it
func NewRefresher(loader Loader, apply func(Table) error, log *logrus.Logger) *Refresher {
	return &Refresher{
		cron:   cron.New(),
		loader: loader,
		apply:  apply,
		log:    log,
	}
}

// Start schedules Refresh with the given cron spec (e.g. "@every 1h")
func (r *Refresher) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, func() {
		if err := r.Refresh(); err != nil {
			r.log.Warnf("Rate refresh failed, keeping current rates: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid rates refresh schedule %q: %w", spec, err)
	}
	r.cron.Start()
	r.log.Infof("Rate refresh scheduled: %s", spec)
	return nil
}

// Refresh loads and applies a table once
func (r *Refresher) Refresh() error {
	table, err := r.loader.Load()
	if err != nil {
		return err
	}
	return r.apply(table)
}

// Stop halts the schedule; the returned context is done once a running reload finishes
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}
