package currency

import (
	"context"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Converter converts and formats USD amounts for one display currency.
// Amounts are computed and stored in USD everywhere; a Converter is the only
// place display conversion happens, so switching the display currency never
// requires re-querying the data store.
type Converter struct {
	cache *Cache
	code  string
}

// NewConverter creates a converter bound to the given display currency.
// An empty or unknown code falls back to USD.
func NewConverter(cache *Cache, code string) *Converter {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		code = "usd"
	}
	return &Converter{
		cache: cache,
		code:  code,
	}
}

// Currency returns the display currency code.
func (cv *Converter) Currency() string {
	return cv.code
}

// Convert returns the USD amount expressed in the display currency.
func (cv *Converter) Convert(ctx context.Context, amountUSD float64) float64 {
	return amountUSD * cv.cache.Rate(ctx, cv.code)
}

// Format returns the USD amount converted and rendered with the display
// currency's symbol.
func (cv *Converter) Format(ctx context.Context, amountUSD float64) string {
	value := cv.Convert(ctx, amountUSD)

	unit, err := currency.ParseISO(cv.code)
	if err != nil {
		unit = currency.USD
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(value)))
}
