package utils

import (
	"medmarket-service/internal/pkg/constvars"

	"github.com/shopspring/decimal"
)

var koboPerNaira = decimal.NewFromInt(constvars.KoboPerNaira)

// ToKobo converts a naira amount into minor units, rounding half away from zero.
func ToKobo(amount decimal.Decimal) int64 {
	return amount.Mul(koboPerNaira).Round(0).IntPart()
}

func FromKobo(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(koboPerNaira)
}

func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
