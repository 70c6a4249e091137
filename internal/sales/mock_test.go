package sales

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

func testAggregator(seed int64, now time.Time) *Aggregator {
	return &Aggregator{
		rng: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return now },
	}
}

func TestGenerateMockSalesDataShape(t *testing.T) {
	a := testAggregator(1, time.Date(2025, time.April, 18, 12, 0, 0, 0, time.UTC))

	data := a.GenerateMockSalesData(context.Background())

	if !data.Synthetic {
		t.Fatal("generated data must be marked synthetic")
	}
	if len(data.WeeklySales) != 7 {
		t.Fatalf("expected 7 weekly buckets, got %d", len(data.WeeklySales))
	}
	if len(data.MonthlySales) != 4 {
		t.Fatalf("expected 4 monthly buckets, got %d", len(data.MonthlySales))
	}
	if len(data.YearlySales) != 12 {
		t.Fatalf("expected 12 yearly buckets, got %d", len(data.YearlySales))
	}
	if len(data.TopSellingItems) != 5 {
		t.Fatalf("expected 5 top sellers, got %d", len(data.TopSellingItems))
	}
	if len(data.LowStockItems) != 3 {
		t.Fatalf("expected 3 low-stock entries, got %d", len(data.LowStockItems))
	}

	for _, d := range data.WeeklySales {
		if d.Sales <= 0 {
			t.Fatalf("weekly bucket %s has no sales", d.Day)
		}
	}
}

func TestGenerateMockSalesDataCalendarAlignment(t *testing.T) {
	// A Friday in April: the last weekly bucket is today, the last yearly
	// bucket is the current month, the first reaches a year back.
	a := testAggregator(1, time.Date(2025, time.April, 18, 12, 0, 0, 0, time.UTC))

	data := a.GenerateMockSalesData(context.Background())

	last := data.WeeklySales[6]
	if last.Day != "Fri" || last.Date != "2025-04-18" {
		t.Fatalf("last weekly bucket should be today (Fri 2025-04-18), got %s %s", last.Day, last.Date)
	}
	if first := data.WeeklySales[0]; first.Date != "2025-04-12" {
		t.Fatalf("weekly series should start 6 days back, got %s", first.Date)
	}

	if m := data.YearlySales[11]; m.Month != "Apr" || m.Year != "2025" {
		t.Fatalf("last yearly bucket should be Apr 2025, got %s %s", m.Month, m.Year)
	}
	if m := data.YearlySales[0]; m.Month != "May" || m.Year != "2024" {
		t.Fatalf("first yearly bucket should be May 2024, got %s %s", m.Month, m.Year)
	}
}

func TestGenerateMockSalesDataSeasonalBias(t *testing.T) {
	a := testAggregator(7, time.Date(2025, time.December, 15, 12, 0, 0, 0, time.UTC))

	data := a.GenerateMockSalesData(context.Background())

	var december, january int
	for _, m := range data.YearlySales {
		switch m.Month {
		case "Dec":
			december = m.Sales
		case "Jan":
			january = m.Sales
		}
	}
	// Multipliers are 1.6 vs 0.7 with at most +-10% noise, so December
	// always clears January.
	if december <= january {
		t.Fatalf("December (%d) should outsell January (%d)", december, january)
	}
}

func TestSyntheticTopSellersSortedBySales(t *testing.T) {
	a := testAggregator(3, time.Date(2025, time.April, 18, 12, 0, 0, 0, time.UTC))

	top := a.topSellingItems(context.Background())

	if len(top) != 5 {
		t.Fatalf("expected 5 synthetic top sellers, got %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Sales > top[i-1].Sales {
			t.Fatalf("top sellers not sorted by sales: %d before %d", top[i-1].Sales, top[i].Sales)
		}
	}
	for _, item := range top {
		if item.Name == "" {
			t.Fatal("synthetic top seller missing a name")
		}
		if item.Revenue != float64(item.Sales)*item.Price {
			t.Fatalf("revenue %v does not match sales*price for %s", item.Revenue, item.Name)
		}
	}
}
