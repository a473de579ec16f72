package brapi

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Response is the body of the brapi.dev quote endpoint.
type Response struct {
	Results []Quote `json:"results"`
}

// Quote is one symbol's entry in a quote response. DividendsData is only present when the
// dividendsData module was requested.
type Quote struct {
	Symbol             string         `json:"symbol"`
	ShortName          string         `json:"shortName"`
	LongName           string         `json:"longName"`
	Currency           string         `json:"currency"`
	RegularMarketPrice float64        `json:"regularMarketPrice"`
	DividendsData      *DividendsData `json:"dividendsData,omitempty"`
}

// DividendsData holds a symbol's dividend history.
type DividendsData struct {
	CashDividends []CashDividend `json:"cashDividends"`
}

// CashDividend is one announced cash distribution. Rate is per share.
type CashDividend struct {
	AssetIssued   string     `json:"assetIssued"`
	PaymentDate   string     `json:"paymentDate"`
	Rate          FlexNumber `json:"rate"`
	RelatedTo     string     `json:"relatedTo"`
	ApprovedOn    string     `json:"approvedOn"`
	Label         string     `json:"label"`
	LastDatePrior string     `json:"lastDatePrior"`
}

// FlexNumber holds a JSON number that the feed sometimes sends as a string.
// Malformed values are kept as text so that one bad entry does not fail the whole payload.
type FlexNumber string

// UnmarshalJSON accepts a number, a string or null.
func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	*n = FlexNumber(strings.Trim(s, `"`))
	return nil
}

// Decimal parses the number. The boolean is false for empty or malformed values.
func (n FlexNumber) Decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(n)))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// PaymentDay parses the payment date into a calendar date. The feed sends ISO-8601
// timestamps; a bare date is accepted too.
func (c CashDividend) PaymentDay() (time.Time, bool) {
	raw := strings.TrimSpace(c.PaymentDate)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, false
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
