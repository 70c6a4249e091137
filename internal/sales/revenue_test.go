package sales

import (
	"encoding/json"
	"testing"
	"time"

	"ims-client/internal/model"
)

func ff(v float64) *model.FlexFloat { f := model.FlexFloat(v); return &f }
func fi(v int) *model.FlexInt       { f := model.FlexInt(v); return &f }

func TestMonthlyRevenueBucketsMixedDateFormats(t *testing.T) {
	transactions := []model.Transaction{
		{Date: "18 Apr 2025, 10:57 pm", Total: ff(30000)},
		{Date: "2025-04-08T01:35:00Z", TotalPrice: ff(6000)},
	}

	buckets := MonthlyRevenue(transactions)

	if got := buckets["April 2025"]; got != 36000 {
		t.Fatalf("expected April 2025 = 36000, got %v (buckets: %v)", got, buckets)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected a single bucket, got %v", buckets)
	}
}

func TestMonthlyRevenueSkipsUnparseableDates(t *testing.T) {
	transactions := []model.Transaction{
		{Date: "not a date at all", Total: ff(100)},
		{Date: "99 Xyz 20, huh", Total: ff(100)},
		{Date: "2025-03-01", Total: ff(50)},
	}

	buckets := MonthlyRevenue(transactions)

	if len(buckets) != 1 {
		t.Fatalf("unparseable dates must be excluded from all buckets, got %v", buckets)
	}
	if buckets["March 2025"] != 50 {
		t.Fatalf("expected March 2025 = 50, got %v", buckets)
	}
}

func TestMonthlyRevenueFallsBackToTimestampThenNow(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	transactions := []model.Transaction{
		{Timestamp: "2025-02-10T08:00:00Z", Total: ff(10)},
		{Total: ff(7)}, // no date info at all
	}

	buckets := MonthlyRevenue(transactions)

	if buckets["February 2025"] != 10 {
		t.Fatalf("timestamp field should be used, got %v", buckets)
	}
	if buckets["June 2025"] != 7 {
		t.Fatalf("dateless records bucket under the current month, got %v", buckets)
	}
}

func TestMonthlyRevenueAmountPrecedence(t *testing.T) {
	transactions := []model.Transaction{
		// total wins over everything
		{Date: "2025-01-05", Total: ff(100), TotalPrice: ff(999), UnitPrice: ff(999), Quantity: fi(9)},
		// totalPrice next
		{Date: "2025-02-05", TotalPrice: ff(200), UnitPrice: ff(999), Quantity: fi(9)},
		// unitPrice * quantity
		{Date: "2025-03-05", UnitPrice: ff(30), Quantity: fi(3)},
		// price stands in for unitPrice, quantity defaults to 1
		{Date: "2025-04-05", Price: ff(40)},
	}

	buckets := MonthlyRevenue(transactions)

	for label, want := range map[string]float64{
		"January 2025":  100,
		"February 2025": 200,
		"March 2025":    90,
		"April 2025":    40,
	} {
		if buckets[label] != want {
			t.Fatalf("%s: expected %v, got %v", label, want, buckets[label])
		}
	}
}

func TestMonthlyRevenueCountsGarbageAmountsAsZero(t *testing.T) {
	var tx model.Transaction
	if err := json.Unmarshal([]byte(`{"date":"2025-04-08","total":"not-a-number"}`), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	buckets := MonthlyRevenue([]model.Transaction{tx})

	got, ok := buckets["April 2025"]
	if !ok {
		t.Fatal("record with garbage amount must still count toward its date bucket")
	}
	if got != 0 {
		t.Fatalf("garbage amount resolves to 0, got %v", got)
	}
}

func TestSortedMonthlyRevenueNewestFirst(t *testing.T) {
	rows := SortedMonthlyRevenue(map[string]float64{
		"April 2025":    1,
		"January 2025":  2,
		"December 2024": 3,
		"December 2025": 4,
	})

	want := []string{"December 2025", "April 2025", "January 2025", "December 2024"}
	for i, label := range want {
		if rows[i].Month != label {
			t.Fatalf("position %d: expected %s, got %s (rows: %v)", i, label, rows[i].Month, rows)
		}
	}
}
