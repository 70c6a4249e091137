package sales

import (
	"log"
	"sort"
	"strings"
	"time"

	"ims-client/internal/model"
)

// timeNow is swapped out in tests to pin the fallback bucket for records
// that carry no date at all.
var timeNow = time.Now

// MonthlyRevenue buckets a heterogeneous transaction list into summed
// revenue per "Month Year" label (e.g. "April 2025"). It is a pure
// derivation: records with unparseable dates are skipped with a logged
// warning, records with a present-but-garbage amount contribute 0 but still
// count toward their date bucket, and records with no date at all fall back
// to the current instant rather than being dropped silently.
func MonthlyRevenue(transactions []model.Transaction) map[string]float64 {
	buckets := make(map[string]float64)

	for _, tx := range transactions {
		when, ok := transactionTime(tx)
		if !ok {
			log.Printf("Warning: skipping transaction with unparseable date %q (item %s)", tx.Date, tx.ItemID)
			continue
		}

		label := when.Format("January 2006")
		buckets[label] += TransactionAmount(tx)
	}

	return buckets
}

// MonthRevenue is one display row of the monthly revenue report.
type MonthRevenue struct {
	Month   string
	Revenue float64
}

// SortedMonthlyRevenue orders buckets for display: newest first, by year and
// then by calendar month within the year.
func SortedMonthlyRevenue(buckets map[string]float64) []MonthRevenue {
	rows := make([]MonthRevenue, 0, len(buckets))
	for label, revenue := range buckets {
		rows = append(rows, MonthRevenue{Month: label, Revenue: revenue})
	}

	sort.Slice(rows, func(i, j int) bool {
		ti, erri := time.Parse("January 2006", rows[i].Month)
		tj, errj := time.Parse("January 2006", rows[j].Month)
		if erri != nil || errj != nil {
			return rows[i].Month > rows[j].Month
		}
		return ti.After(tj)
	})

	return rows
}

// transactionTime resolves a record's timestamp from whichever field and
// format it arrived in. ok is false only for a present-but-unparseable date.
func transactionTime(tx model.Transaction) (time.Time, bool) {
	if tx.Date != "" {
		// Locale-formatted dates look like "18 Apr 2025, 10:57 pm"; the part
		// before the comma is all the bucketing needs.
		if strings.Contains(tx.Date, ",") {
			head := strings.TrimSpace(strings.SplitN(tx.Date, ",", 2)[0])
			t, err := time.Parse("2 Jan 2006", head)
			if err != nil {
				return time.Time{}, false
			}
			return t, true
		}

		t, err := parseISOTime(tx.Date)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if tx.Timestamp != "" {
		t, err := parseISOTime(tx.Timestamp)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	log.Printf("Warning: transaction has no date, bucketing under the current month (item %s)", tx.ItemID)
	return timeNow(), true
}

func parseISOTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// TransactionAmount resolves the revenue of one record: total, then
// totalPrice, then unitPrice (falling back to price) times quantity
// (defaulting to 1). A resolved amount that is not a finite number counts
// as 0.
func TransactionAmount(tx model.Transaction) float64 {
	if v, ok := amountField(tx.Total); ok {
		return v
	}
	if v, ok := amountField(tx.TotalPrice); ok {
		return v
	}

	var unitPrice model.FlexFloat
	switch {
	case tx.UnitPrice != nil && tx.UnitPrice.Valid() && tx.UnitPrice.Float() != 0:
		unitPrice = *tx.UnitPrice
	case tx.Price != nil:
		unitPrice = *tx.Price
	}

	quantity := 1
	if tx.Quantity != nil && tx.Quantity.Int() != 0 {
		quantity = tx.Quantity.Int()
	}

	if !unitPrice.Valid() {
		return 0
	}
	return unitPrice.Float() * float64(quantity)
}

// amountField reports a usable value for an optional amount. A present but
// garbage value is usable as 0; an absent or zero value defers to the next
// field in the precedence chain.
func amountField(f *model.FlexFloat) (float64, bool) {
	if f == nil {
		return 0, false
	}
	if !f.Valid() {
		return 0, true
	}
	if f.Float() == 0 {
		return 0, false
	}
	return f.Float(), true
}
