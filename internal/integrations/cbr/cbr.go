package cbr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

const (
	soapNamespace = "http://www.w3.org/2003/05/soap-envelope"
	cbrNamespace  = "http://web.cbr.ru/"
	keyRateAction = "http://web.cbr.ru/KeyRate"

	// lookbackDays is how far back the key rate history is requested
	lookbackDays = 30
)

// ErrNoRate is returned when the response holds no rate effective on the requested day
var ErrNoRate = errors.New("no key rate in response")

// keyRate is one row of the key rate history
type keyRate struct {
	date time.Time
	rate float64
}

// CBRClient fetches the Central Bank of Russia key rate, used as the
// reference rate next to debt payoff recommendations
type CBRClient struct {
	url    string
	margin float64
	client *http.Client
	log    *logrus.Logger
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url:    cfg.CBRURL,
		margin: cfg.BankMargin,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// keyRateEnvelope builds the SOAP 1.2 KeyRate call for the window ending today
func keyRateEnvelope(today time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	envelope := doc.CreateElement("soap12:Envelope")
	envelope.CreateAttr("xmlns:soap12", soapNamespace)
	call := envelope.CreateElement("soap12:Body").CreateElement("KeyRate")
	call.CreateAttr("xmlns", cbrNamespace)
	call.CreateElement("fromDate").SetText(today.AddDate(0, 0, -lookbackDays).Format("2006-01-02"))
	call.CreateElement("ToDate").SetText(today.Format("2006-01-02"))

	return doc.WriteToBytes()
}

func (c *CBRClient) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", keyRateAction)

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
	c.log.Debugf("CBR XML response: %s", string(body))
	return body, nil
}

// parseHistory reads every KR row of the diffgram. Rows without a
// parseable date or rate are reported as errors.
func parseHistory(body []byte) ([]keyRate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	var history []keyRate
	for _, kr := range doc.FindElements("//diffgram/KeyRate/KR") {
		dt := kr.SelectElement("DT")
		value := kr.SelectElement("Rate")
		if dt == nil || value == nil {
			return nil, fmt.Errorf("KR row without DT or Rate")
		}
		date, err := time.Parse(time.RFC3339, strings.TrimSpace(dt.Text()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate date: %w", err)
		}
		// some locales answer with a decimal comma
		text := strings.ReplaceAll(strings.TrimSpace(value.Text()), ",", ".")
		rate, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate %q: %w", text, err)
		}
		history = append(history, keyRate{date: date, rate: rate})
	}
	return history, nil
}

// effectiveOn picks the most recent rate that took effect on or before day
func effectiveOn(history []keyRate, day time.Time) (keyRate, bool) {
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, time.UTC)
	var best keyRate
	found := false
	for _, kr := range history {
		y, m, d := kr.date.Date()
		effective := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if !effective.Before(end) {
			continue
		}
		if !found || effective.After(best.date) {
			best = keyRate{date: effective, rate: kr.rate}
			found = true
		}
	}
	return best, found
}

// GetKeyRate returns the key rate in effect on today plus the configured bank margin
func (c *CBRClient) GetKeyRate(ctx context.Context, today time.Time) (float64, error) {
	payload, err := keyRateEnvelope(today)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	body, err := c.post(ctx, payload)
	if err != nil {
		return 0, err
	}
	history, err := parseHistory(body)
	if err != nil {
		return 0, err
	}
	current, ok := effectiveOn(history, today)
	if !ok {
		return 0, ErrNoRate
	}

	rate := current.rate + c.margin
	c.log.Infof("Retrieved key rate from %s: %.2f%% (including %.2f%% bank margin)",
		current.date.Format("2006-01-02"), rate, c.margin)
	return rate, nil
}
