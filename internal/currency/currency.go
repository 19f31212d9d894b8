// Package currency converts between Chinese yuan (CNY) and Kazakhstani tenge
// (KZT).
//
// There is no live rate feed. FixedRate stands in for one and never fails.
package currency

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// DefaultRate is the number of KZT per CNY used when nothing is configured.
const DefaultRate = 65.0

// ErrInvalidAmount is returned for amounts that are not plain non-negative
// decimals.
var ErrInvalidAmount = errors.New("invalid amount")

// Currency is an ISO 4217 code.
type Currency string

const (
	CNY Currency = "cny"
	KZT Currency = "kzt"
)

// ParseCurrency validates a currency code.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CNY, KZT:
		return Currency(s), nil
	}
	return "", fmt.Errorf("invalid currency %q: must be cny or kzt", s)
}

// RateSource supplies the KZT per CNY exchange rate.
type RateSource interface {
	Rate(ctx context.Context) (float64, error)
}

// FixedRate is a RateSource that always returns the same rate.
type FixedRate float64

// Rate implements RateSource.
func (r FixedRate) Rate(context.Context) (float64, error) {
	if r <= 0 {
		return DefaultRate, nil
	}
	return float64(r), nil
}

// amountPattern accepts digits with at most one decimal point.
var amountPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// ParseAmount parses user input such as "12", "12.5" or ".5".
func ParseAmount(s string) (float64, error) {
	if s == "" || s == "." || !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Converter converts amounts with rates from a RateSource.
type Converter struct {
	rates RateSource
}

// NewConverter creates a converter. A nil source selects FixedRate(DefaultRate).
func NewConverter(rates RateSource) *Converter {
	if rates == nil {
		rates = FixedRate(DefaultRate)
	}
	return &Converter{rates: rates}
}

// ToKZT converts an amount in CNY to KZT.
func (c *Converter) ToKZT(ctx context.Context, cny float64) (float64, error) {
	rate, err := c.rates.Rate(ctx)
	if err != nil {
		return 0, fmt.Errorf("exchange rate: %w", err)
	}
	return Round2(cny * rate), nil
}

// ToCNY converts an amount in KZT to CNY.
func (c *Converter) ToCNY(ctx context.Context, kzt float64) (float64, error) {
	rate, err := c.rates.Rate(ctx)
	if err != nil {
		return 0, fmt.Errorf("exchange rate: %w", err)
	}
	return Round2(kzt / rate), nil
}

// Convert converts amount into the target currency.
func (c *Converter) Convert(ctx context.Context, amount float64, to Currency) (float64, error) {
	if to == CNY {
		return c.ToCNY(ctx, amount)
	}
	return c.ToKZT(ctx, amount)
}

// Format renders an amount with two decimals, as the converter displays it.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
