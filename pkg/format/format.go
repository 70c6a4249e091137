// Package format converts numeric and date values into the locale-formatted
// display strings the dashboards use: Indian Rupee amounts with Indian digit
// grouping, readable dates, grouped numbers.
package format

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var enIN = message.NewPrinter(language.MustParse("en-IN"))

// Currency formats an amount as Indian Rupees (e.g. "₹1,23,456.00").
// Invalid amounts render as "₹0".
func Currency(amount float64, showDecimal bool) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "₹0"
	}

	scale := 0
	if showDecimal {
		scale = 2
	}
	return enIN.Sprintf("₹%v", number.Decimal(amount, number.Scale(scale)))
}

// Number formats a number with en-IN digit grouping. Invalid values render
// as "0".
func Number(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}
	return enIN.Sprintf("%v", number.Decimal(value))
}

// Date formats a timestamp as a readable date like "18 Apr 2025", with the
// time appended when showTime is set. The zero time renders as "N/A".
func Date(t time.Time, showTime bool) string {
	if t.IsZero() {
		return "N/A"
	}
	if showTime {
		return t.Format("2 Jan 2006, 3:04 pm")
	}
	return t.Format("2 Jan 2006")
}
