package services

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"marketlens/backend-go/internal/models"
)

// mapQuote converts the provider's string-number quote into the typed payload
// the API serves. Close is required; the remaining fields tolerate absence.
func mapQuote(symbol string, raw providerQuote) (models.QuoteResponse, error) {
	price, err := decimal.NewFromString(raw.Close)
	if err != nil {
		return models.QuoteResponse{}, errors.Wrapf(err, "parsing close for %s", symbol)
	}
	return models.QuoteResponse{
		Symbol:        symbol,
		Name:          raw.Name,
		Exchange:      raw.Exchange,
		Currency:      raw.Currency,
		Price:         price.InexactFloat64(),
		Change:        optionalFloat(raw.Change),
		ChangePercent: optionalFloat(raw.PercentChange),
		Volume:        optionalInt(raw.Volume),
		UpdatedISO:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func optionalFloat(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

func optionalInt(s string) int64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.IntPart()
}
