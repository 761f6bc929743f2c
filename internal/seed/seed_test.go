package seed

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/card-ledger/internal/config"
	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/Dan9191/card-ledger/internal/repository"
	"github.com/Dan9191/card-ledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{LockTimeout: time.Second, CardNumberAttempts: 32, BcryptCost: bcrypt.MinCost, Locale: "uk"}
	svc := service.NewService(repository.NewRepository(), log, cfg)
	ctx := context.Background()

	res, err := Load(ctx, svc, log)
	if err != nil {
		t.Fatal(err)
	}
	if res.Users != 4 || len(res.Cards) != 13 || res.Rejected != 0 {
		t.Fatalf("result=%+v", res)
	}

	balances := map[string]string{
		"olena1":  "1160",
		"olena3":  "5300",
		"bogdan3": "67651",
		"bogdan4": "884",
		"maryna4": "27582.5",
		"dmytro1": "272.2",
	}
	for key, want := range balances {
		card, err := svc.CardByNumber(ctx, res.Cards[key])
		if err != nil {
			t.Fatal(err)
		}
		if !card.Balance.Equal(decimal.RequireFromString(want)) {
			t.Errorf("%s balance=%s want %s", key, card.Balance, want)
		}
	}

	ops, err := svc.History(ctx, res.Cards["olena2"])
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 4 || ops[1].Type != "charity" || ops[2].Description != "Сільпо" {
		t.Fatalf("olena2 ops=%+v", ops)
	}

	if _, err := svc.Login(ctx, "+380685555555", "dmytro2010"); err != nil {
		t.Fatalf("seeded login failed: %v", err)
	}
	cards, _ := svc.CardsByUser(ctx, 3)
	if len(cards) != 5 || cards[4].Currency != models.USD {
		t.Fatalf("maryna cards=%+v", cards)
	}
}
