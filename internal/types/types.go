// README: Common value objects shared across modules.
package types

import "math"

// ID identifies drivers, orders, offers, and other entities.
type ID string

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Money is an amount in minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MoneyFromFloat converts a decimal amount (e.g. 24.50) into minor units.
func MoneyFromFloat(v float64, currency string) Money {
	return Money{Amount: int64(math.Round(v * 100)), Currency: currency}
}

// Float returns the amount as a decimal value for display.
func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}
