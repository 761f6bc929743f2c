// Package seed loads the demo users, cards and operations through the
// regular service API.
package seed

import (
	"context"
	"fmt"

	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/Dan9191/card-ledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type demoCard struct {
	key      string
	name     string
	currency models.Currency
}

type demoUser struct {
	firstName, lastName, birthday, phone, password string
	cards                                          []demoCard
}

var users = []demoUser{
	{"Olena", "Melnyk", "1990.02.17", "+380681111111", "olena1990", []demoCard{
		{"olena1", "CLOUDY", models.USD},
		{"olena2", "БІЛА", models.UAH},
		{"olena3", "PLATINUM", models.EUR},
	}},
	{"Bogdan", "Shevchyk", "1970.07.30", "+380682222222", "bogdan1970", []demoCard{
		{"bogdan1", "PLATINUM", models.USD},
		{"bogdan2", "єПІДТРИМКА", models.UAH},
		{"bogdan3", "ЧОРНА", models.UAH},
		{"bogdan4", "CLOUDY", models.EUR},
	}},
	{"Maryna", "Kovalenko", "2001.10.03", "+380683333333", "maryna2001", []demoCard{
		{"maryna1", "PLATINUM", models.EUR},
		{"maryna2", "єПІДТРИМКА", models.UAH},
		{"maryna3", "ЧОРНА", models.UAH},
		{"maryna4", "CLOUDY", models.UAH},
		{"maryna5", "БІЛА", models.USD},
	}},
	{"Dmytro", "Shevchyk", "2010.05.24", "+380685555555", "dmytro2010", []demoCard{
		{"dmytro1", "ДИТЯЧА", models.UAH},
	}},
}

type step struct {
	kind        string // topup, withdraw or transfer
	card        string
	target      string
	amount      string
	currency    models.Currency
	description string
	opType      string
}

func topUp(card, amount string, currency models.Currency, description string) step {
	return step{kind: "topup", card: card, amount: amount, currency: currency, description: description, opType: models.OperationTopUp}
}

func withdraw(card, amount string, currency models.Currency, description, opType string) step {
	return step{kind: "withdraw", card: card, amount: amount, currency: currency, description: description, opType: opType}
}

func transfer(source, target, amount string) step {
	return step{kind: "transfer", card: source, target: target, amount: amount}
}

var script = []step{
	topUp("olena1", "3420", models.USD, "Заробітня-плата вересень 2022"),
	transfer("olena1", "maryna1", "1200"),
	withdraw("olena1", "560", models.USD, "Зняття готівки Термінал #8594", ""),
	withdraw("olena1", "500", models.USD, "Зняття готівки Термінал #7396", ""),
	topUp("olena2", "10500", models.UAH, "Поповнення картки через термінал #9864"),
	withdraw("olena2", "8500", models.UAH, "Благодійний фонд Армія дронів", "charity"),
	withdraw("olena2", "1300", models.UAH, "Сільпо", "shopping"),
	withdraw("olena2", "246", models.UAH, "Аптека Доброго дня", "shopping"),
	topUp("olena3", "7500", models.EUR, "Поповнення картки через термінал #5371"),
	transfer("olena3", "bogdan3", "1500"),
	transfer("olena3", "bogdan4", "700"),

	topUp("bogdan1", "1000", models.USD, "Поповнення картки через термінал #1749"),
	withdraw("bogdan1", "548", models.USD, "Інтернет-магазин Будівельник", "shopping"),
	topUp("bogdan2", "1000", models.UAH, "Допомога від держави"),
	withdraw("bogdan2", "800", models.UAH, "Книжковий магазин Буква", "shopping"),
	topUp("bogdan3", "23500", models.UAH, "Поповнення картки через термінал #6937"),
	transfer("bogdan3", "maryna4", "12950"),
	withdraw("bogdan3", "600", models.UAH, "Поповнення мобільного +380682222222", "mobile"),
	withdraw("bogdan3", "799", models.UAH, "Інтернет-магазин Розетка", "shopping"),
	topUp("bogdan4", "800", models.USD, "Заробітня-плата 09.2022"),
	withdraw("bogdan4", "600", models.USD, "Зняття готівки Термінал #9530", ""),

	topUp("maryna1", "3700", models.EUR, "Поповнення картки через термінал #7382"),
	transfer("maryna1", "maryna3", "3200"),
	transfer("maryna1", "maryna4", "300"),
	topUp("maryna2", "1000", models.UAH, "Допомога від держави"),
	withdraw("maryna2", "153", models.UAH, "Аптека Подорожник", "shopping"),
	withdraw("maryna2", "300", models.UAH, "Спорт-клуб Iron", "shopping"),
	topUp("maryna3", "1200", models.UAH, "Поповнення картки через термінал #5831"),
	withdraw("maryna3", "1050", models.UAH, "Благодійний фонд Сергія Притули", "charity"),
	topUp("maryna4", "9500", models.UAH, "Заробітня-плата за 08.2022"),
	withdraw("maryna4", "499", models.UAH, "Магазин одягу Шафа", "shopping"),
	withdraw("maryna4", "283.50", models.UAH, "Продукти Фора", "shopping"),
	withdraw("maryna4", "55", models.UAH, "Поповнення мобільного +380683333333", "mobile"),
	transfer("maryna4", "maryna5", "6000"),
	withdraw("maryna5", "100", models.USD, "Зняття валюти через касу банк Cloudy", ""),

	transfer("bogdan3", "dmytro1", "1150"),
	withdraw("dmytro1", "482.80", models.UAH, "Дитячий магазин Містері", "shopping"),
	withdraw("dmytro1", "380", models.UAH, "Дитячий магазин Бебі-ворлд", "shopping"),
	transfer("bogdan3", "dmytro1", "200"),
	withdraw("dmytro1", "50", models.UAH, "Зняття готівки Термінал #7241", ""),
	withdraw("dmytro1", "75", models.UAH, "Поповнення мобільного +380685555555", "mobile"),
	withdraw("dmytro1", "90", models.UAH, "Благодійний фонд Армія дронів", "charity"),
}

// Result maps the demo card keys (olena1, bogdan3, ...) to issued card numbers
type Result struct {
	Users int
	Cards map[string]string
	// Rejected counts script steps the ledger refused, e.g. for lack of funds.
	Rejected int
}

// Load creates the demo data. Failing to create users or cards aborts;
// rejected operations are logged and counted.
func Load(ctx context.Context, svc *service.Service, log *logrus.Logger) (Result, error) {
	res := Result{Cards: make(map[string]string)}

	for _, u := range users {
		user, err := svc.CreateUser(ctx, models.NewUser{
			FirstName: u.firstName,
			LastName:  u.lastName,
			Birthday:  u.birthday,
			Phone:     u.phone,
			Password:  u.password,
		})
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", u.phone, err)
		}
		res.Users++

		for _, c := range u.cards {
			card, err := svc.CreateCard(ctx, user.ID, c.name, c.currency)
			if err != nil {
				return res, fmt.Errorf("seed card %s: %w", c.key, err)
			}
			res.Cards[c.key] = card.Number
		}
	}

	for i, st := range script {
		if err := run(ctx, svc, res.Cards, st); err != nil {
			res.Rejected++
			log.Warnf("Seed step %d (%s %s %s) rejected: %v", i, st.kind, st.card, st.amount, err)
		}
	}

	log.Infof("Demo data loaded: %d users, %d cards, %d of %d operations rejected", res.Users, len(res.Cards), res.Rejected, len(script))
	return res, nil
}

func run(ctx context.Context, svc *service.Service, cards map[string]string, st step) error {
	amount, err := decimal.NewFromString(st.amount)
	if err != nil {
		return err
	}

	switch st.kind {
	case "transfer":
		return svc.Transfer(ctx, cards[st.card], cards[st.target], amount)
	case "topup":
		return svc.TopUp(ctx, service.FundsRequest{CardNumber: cards[st.card], Amount: amount, Currency: st.currency, Description: st.description, Type: st.opType})
	case "withdraw":
		return svc.Withdraw(ctx, service.FundsRequest{CardNumber: cards[st.card], Amount: amount, Currency: st.currency, Description: st.description, Type: st.opType})
	default:
		return fmt.Errorf("unknown seed step %q", st.kind)
	}
}
