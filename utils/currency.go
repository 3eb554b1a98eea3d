package utils

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayPrinter = message.NewPrinter(language.English)

// FormatRWF renders an amount for people, e.g. "RWF 5,000". Franc amounts are
// shown without minor units.
func FormatRWF(amount float64) string {
	if !finite(amount) {
		return "RWF " + strconv.FormatFloat(amount, 'f', -1, 64)
	}
	rounded := decimal.NewFromFloat(amount).Round(0).IntPart()
	return displayPrinter.Sprintf("RWF %d", rounded)
}

// RawAmount renders an amount for machine consumption with no grouping and
// no trailing zeros, e.g. "5000" or "2.5".
func RawAmount(amount float64) string {
	if !finite(amount) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	return decimal.NewFromFloat(amount).String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
