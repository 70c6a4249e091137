package sales

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"ims-client/internal/model"
)

var shortMonths = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// GenerateMockSalesData synthesizes a plausible sales dataset for
// visualization when the backend provides none: 7 days of weekly figures
// with weekend-biased sales, 4 weekly buckets trending upward, and 12 months
// with seasonal multipliers layered over a small growth trend. The result is
// always fully populated and marked Synthetic.
func (a *Aggregator) GenerateMockSalesData(ctx context.Context) model.SalesData {
	now := a.now()

	// Weekly: past 7 days, higher sales on weekends.
	weekly := make([]model.DailySales, 0, 7)
	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		weekday := date.Weekday()

		baseSales := 8.0
		if weekday == time.Saturday || weekday == time.Sunday {
			baseSales = 15
		}
		sales := round(baseSales * (0.75 + a.rng.Float64()*0.5))

		// Stock tends to be added before weekends.
		var stockAdded int
		switch weekday {
		case time.Friday:
			stockAdded = round(float64(sales) * 1.5)
		case time.Monday:
			stockAdded = round(float64(sales) * 0.8)
		default:
			stockAdded = round(float64(sales) * 0.3 * a.rng.Float64())
		}

		weekly = append(weekly, model.DailySales{
			Day:        weekday.String()[:3],
			Date:       date.Format("2006-01-02"),
			Sales:      sales,
			StockAdded: stockAdded,
		})
	}

	// Monthly: past 30 days as 4 weekly buckets, trending upward.
	monthly := make([]model.DailySales, 0, 4)
	for i := 0; i < 4; i++ {
		weekStart := now.AddDate(0, 0, -(7*(3-i) + 6))
		weekEnd := weekStart.AddDate(0, 0, 6)

		sales := round(float64(60+i*10) * (0.85 + a.rng.Float64()*0.3))
		stockAdded := round(float64(sales) * (0.7 + a.rng.Float64()*0.6))

		monthly = append(monthly, model.DailySales{
			Day:        fmt.Sprintf("Week %d", i+1),
			Date:       weekStart.Format("2006-01-02") + " - " + weekEnd.Format("2006-01-02"),
			Sales:      sales,
			StockAdded: stockAdded,
		})
	}

	// Yearly: past 12 months with seasonal patterns and a growth trend.
	yearly := make([]model.MonthSales, 0, 12)
	currentMonth := int(now.Month()) - 1
	for i := 11; i >= 0; i-- {
		monthIndex := (currentMonth - i + 12) % 12
		year := now.Year()
		if currentMonth < i {
			year--
		}

		seasonalFactor := 1.0
		switch {
		case monthIndex == 11: // December, holiday season
			seasonalFactor = 1.6
		case monthIndex == 0: // January, post-holiday slump
			seasonalFactor = 0.7
		case monthIndex >= 5 && monthIndex <= 7: // summer
			seasonalFactor = 1.2
		case monthIndex >= 9 && monthIndex <= 10: // fall
			seasonalFactor = 1.1
		}
		trendFactor := 1 + float64(i)*0.01

		sales := round(200 * seasonalFactor * trendFactor * (0.9 + a.rng.Float64()*0.2))
		stockAdded := round(float64(sales) * (0.8 + a.rng.Float64()*0.4))

		yearly = append(yearly, model.MonthSales{
			Month:      shortMonths[monthIndex],
			Year:       fmt.Sprintf("%d", year),
			Sales:      sales,
			StockAdded: stockAdded,
		})
	}

	return model.SalesData{
		WeeklySales:     weekly,
		MonthlySales:    monthly,
		YearlySales:     yearly,
		TopSellingItems: a.topSellingItems(ctx),
		LowStockItems:   a.mockLowStockItems(),
		Synthetic:       true,
	}
}

// topSellingItems prefers real inventory, sorted by cumulative sales, top 5.
// Wholly synthetic named items appear only when no inventory is available.
func (a *Aggregator) topSellingItems(ctx context.Context) []model.Item {
	if a.items != nil {
		items, err := a.items.ListItems(ctx)
		if err != nil {
			log.Printf("Warning: failed to derive top sellers from inventory: %v", err)
		} else if len(items) > 0 {
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].Sales > items[j].Sales
			})
			if len(items) > 5 {
				items = items[:5]
			}
			return items
		}
	}

	categories := []string{"Electronics", "Clothing", "Food", "Stationery", "Furniture"}
	names := []string{"Laptop", "Smartphone", "Headphones", "T-shirt", "Jeans"}

	top := make([]model.Item, 0, 5)
	for i := 0; i < 5; i++ {
		sales := a.rng.Intn(80) + 20
		price := float64(a.rng.Intn(50) + 10)
		top = append(top, model.Item{
			Name:     names[i],
			Category: categories[i%len(categories)],
			Price:    price,
			Sales:    sales,
			Revenue:  float64(sales) * price,
			MinStock: model.DefaultMinStock,
		})
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Sales > top[j].Sales
	})
	return top
}

func (a *Aggregator) mockLowStockItems() []model.Item {
	categories := []string{"Electronics", "Stationery", "Food"}
	names := []string{"Printer Ink", "USB Drive", "AAA Batteries"}

	low := make([]model.Item, 0, 3)
	for i := 0; i < 3; i++ {
		low = append(low, model.Item{
			Name:     names[i],
			Category: categories[i%len(categories)],
			Quantity: a.rng.Intn(4) + 1,
			MinStock: a.rng.Intn(5) + 5,
		})
	}
	return low
}

func round(v float64) int {
	return int(math.Round(v))
}
