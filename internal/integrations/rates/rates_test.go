package rates

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Dan9191/card-ledger/internal/config"
	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<CurrencyRates date="2022-09-30">
	<Rate from="USD" to="EUR">0.950</Rate>
	<Rate from="eur" to="usd"> 1.050 </Rate>
</CurrencyRates>`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDefaultTableIsComplete(t *testing.T) {
	table := Default()
	if err := table.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(table) != len(models.Currencies)*len(models.Currencies) {
		t.Fatalf("table size=%d", len(table))
	}
	usdEur := table[Pair{models.USD, models.EUR}]
	eurUsd := table[Pair{models.EUR, models.USD}]
	if usdEur.Mul(eurUsd).Equal(decimal.NewFromInt(1)) {
		t.Fatal("reverse rate should be quoted independently, not as the inverse")
	}
}

func TestValidateRejects(t *testing.T) {
	missing := Default()
	delete(missing, Pair{models.UAH, models.EUR})
	if err := missing.Validate(); err == nil {
		t.Error("missing pair accepted")
	}

	negative := Default()
	negative[Pair{models.USD, models.EUR}] = decimal.NewFromInt(-1)
	if err := negative.Validate(); err == nil {
		t.Error("negative rate accepted")
	}

	identity := Default()
	identity[Pair{models.USD, models.USD}] = decimal.RequireFromString("1.01")
	if err := identity.Validate(); err == nil {
		t.Error("non-unit identity rate accepted")
	}
}

func TestParseXML(t *testing.T) {
	table, err := ParseXML([]byte(sampleXML))
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 2 {
		t.Fatalf("parsed %d rates", len(table))
	}
	if got := table[Pair{models.EUR, models.USD}]; !got.Equal(decimal.RequireFromString("1.05")) {
		t.Fatalf("EUR_USD=%s", got)
	}
}

func TestParseXMLErrors(t *testing.T) {
	tests := map[string]string{
		"not xml":  "<<<",
		"no rates": "<CurrencyRates/>",
		"currency": `<CurrencyRates><Rate from="GBP" to="USD">1.2</Rate></CurrencyRates>`,
		"value":    `<CurrencyRates><Rate from="USD" to="EUR">abc</Rate></CurrencyRates>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseXML([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestClientLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.xml")
	if err := os.WriteFile(path, []byte(sampleXML), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewClient(&config.Config{RatesSource: path}, quietLogger())
	table, err := c.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := table[Pair{models.USD, models.EUR}]; !got.Equal(decimal.RequireFromString("0.95")) {
		t.Fatalf("USD_EUR=%s", got)
	}
	// Pairs absent from the document keep the built-in quote.
	if got := table[Pair{models.USD, models.UAH}]; !got.Equal(decimal.RequireFromString("36.7")) {
		t.Fatalf("USD_UAH=%s", got)
	}
}

func TestClientLoadHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sampleXML))
	}))
	defer ts.Close()

	c := NewClient(&config.Config{RatesSource: ts.URL}, quietLogger())
	if _, err := c.Load(); err != nil {
		t.Fatal(err)
	}
}

func TestClientLoadHTTPStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(&config.Config{RatesSource: ts.URL}, quietLogger())
	if _, err := c.Load(); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

type stubLoader struct {
	table Table
	err   error
}

func (s stubLoader) Load() (Table, error) { return s.table, s.err }

func TestRefresherAppliesLoadedTable(t *testing.T) {
	var applied atomic.Int32
	r := NewRefresher(stubLoader{table: Default()}, func(Table) error {
		applied.Add(1)
		return nil
	}, quietLogger())

	if err := r.Refresh(); err != nil {
		t.Fatal(err)
	}
	if applied.Load() != 1 {
		t.Fatalf("applied=%d", applied.Load())
	}
}

func TestRefresherKeepsRatesOnFailure(t *testing.T) {
	loadErr := errors.New("boom")
	r := NewRefresher(stubLoader{err: loadErr}, func(Table) error {
		t.Fatal("apply must not run after a failed load")
		return nil
	}, quietLogger())

	if err := r.Refresh(); !errors.Is(err, loadErr) {
		t.Fatalf("err=%v", err)
	}
}

func TestRefresherStartRejectsBadSpec(t *testing.T) {
	r := NewRefresher(stubLoader{}, func(Table) error { return nil }, quietLogger())
	if err := r.Start("not a schedule"); err == nil {
		t.Fatal("expected error for invalid spec")
	}
	<-r.Stop().Done()
}
