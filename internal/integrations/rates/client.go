package rates

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Dan9191/card-ledger/internal/config"
	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Client loads rate tables from an XML document on disk or over HTTP.
//
// Expected document:
//
//	<CurrencyRates>
//	  <Rate from="USD" to="EUR">0.920</Rate>
//	  ...
//	</CurrencyRates>
type Client struct {
	source string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a rates client for cfg.RatesSource
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		source: cfg.RatesSource,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Load reads, parses and validates the configured rate document.
// Pairs the document does not quote keep their built-in rate.
func (c *Client) Load() (Table, error) {
	body, err := c.read()
	if err != nil {
		return nil, err
	}

	quoted, err := ParseXML(body)
	if err != nil {
		return nil, err
	}

	table := Default()
	for pair, rate := range quoted {
		table[pair] = rate
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	c.log.Infof("Loaded %d currency rates from %s", len(quoted), c.source)
	return table, nil
}

func (c *Client) read() ([]byte, error) {
	if c.source == "" {
		return nil, fmt.Errorf("rates source is not configured")
	}
	if !strings.HasPrefix(c.source, "http://") && !strings.HasPrefix(c.source, "https://") {
		body, err := os.ReadFile(c.source)
		if err != nil {
			return nil, fmt.Errorf("failed to read rates file: %w", err)
		}
		return body, nil
	}

	req, err := http.NewRequest(http.MethodGet, c.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("Rates XML response: %s", string(body))
	return body, nil
}

// ParseXML extracts every <Rate from=".." to="..">value</Rate> element
func ParseXML(raw []byte) (Table, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	elements := doc.FindElements("//Rate")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	table := make(Table, len(elements))
	for _, el := range elements {
		from, err := models.ParseCurrency(el.SelectAttrValue("from", ""))
		if err != nil {
			return nil, fmt.Errorf("rate element: %w", err)
		}
		to, err := models.ParseCurrency(el.SelectAttrValue("to", ""))
		if err != nil {
			return nil, fmt.Errorf("rate element: %w", err)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(el.Text()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate %s_%s: %w", from, to, err)
		}
		table[Pair{from, to}] = rate
	}
	return table, nil
}
