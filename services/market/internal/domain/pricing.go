package domain

import (
	"errors"
	"math"
	"strconv"

	"github.com/google/uuid"
)

const (
	// MaxQuantity bounds one cart or order line.
	MaxQuantity = 1_000_000
	// MaxPrice bounds a unit price. MaxQuantity*MaxPrice fits in int64.
	MaxPrice = 1_000_000_000_000
)

var ErrAmountOverflow = errors.New("amount overflows int64")

// PricedLine is one cart or order line priced at the product's current price.
type PricedLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

func (l PricedLine) Subtotal() int64 {
	return l.UnitPrice * l.Quantity
}

// Total sums the line subtotals. Lines are expected to carry non-negative
// prices and quantities.
func Total(lines []PricedLine) (int64, error) {
	var sum int64
	for _, l := range lines {
		if l.Quantity > 0 && l.UnitPrice > math.MaxInt64/l.Quantity {
			return 0, ErrAmountOverflow
		}
		sub := l.Subtotal()
		if sum > math.MaxInt64-sub {
			return 0, ErrAmountOverflow
		}
		sum += sub
	}
	return sum, nil
}

// AverageRating rounds the mean of ratings to one decimal. No ratings gives 0.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	return roundRating(float64(sum) / float64(len(ratings)))
}

// roundRating rounds the exact binary value to one decimal, ties to even:
// 4.25 gives 4.2, 87/20 (stored just below 4.35) gives 4.3.
func roundRating(avg float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(avg, 'f', 1, 64), 64)
	return v
}

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
