package provider

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockdash/pkg/models"
)

// Places is the number of decimal places kept for prices and percentages.
const Places = 4

// ParseNumber parses a provider numeric string such as "193.6000" or
// "1.2500%" and rounds it to Places. Empty input is zero.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if blank(s) {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return Round(d), nil
}

// ParseRequiredNumber is ParseNumber for fields that must carry a value,
// such as a quote's price. Empty, "None" and "-" are errors.
func ParseRequiredNumber(s string) (float64, error) {
	if blank(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))) {
		return 0, fmt.Errorf("missing value %q", s)
	}
	return ParseNumber(s)
}

func blank(s string) bool {
	return s == "" || s == "None" || s == "-"
}

// RoundFloat rounds a provider float to Places.
func RoundFloat(f float64) float64 {
	return Round(decimal.NewFromFloat(f))
}

// Round converts d to float64 rounded to Places.
func Round(d decimal.Decimal) float64 {
	f, _ := d.Round(Places).Float64()
	return f
}

// ParseVolume parses an integer volume, tolerating a decimal suffix ("1200.0").
func ParseVolume(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", s, err)
	}
	return d.IntPart(), nil
}

// CheckQuote enforces that every price field is non-negative and finite and
// that the trading day is set.
func CheckQuote(q *models.Quote) error {
	for name, v := range q.PriceFields() {
		if !finiteNonNegative(v) {
			return fmt.Errorf("%s out of range: %v", name, v)
		}
	}
	if q.Volume < 0 {
		return fmt.Errorf("volume out of range: %d", q.Volume)
	}
	if q.LatestTradingDay.IsZero() {
		return fmt.Errorf("missing trading day")
	}
	return nil
}

// CheckBar applies the same range rules to one HistoricalBar.
func CheckBar(b models.HistoricalBar) error {
	for name, v := range map[string]float64{"open": b.Open, "high": b.High, "low": b.Low, "close": b.Close} {
		if !finiteNonNegative(v) {
			return fmt.Errorf("%s %s out of range: %v", b.Date, name, v)
		}
	}
	if b.Volume < 0 {
		return fmt.Errorf("%s volume out of range: %d", b.Date, b.Volume)
	}
	return nil
}

// RecentFirst sorts bars most recent first and keeps at most window of them.
func RecentFirst(bars []models.HistoricalBar, window int) []models.HistoricalBar {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.After(bars[j].Date.Time)
	})
	if window > 0 && len(bars) > window {
		bars = bars[:window]
	}
	return bars
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
