package sales

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"ims-client/internal/endpoint"
	"ims-client/internal/model"
	"ims-client/internal/repository"
	"ims-client/pkg/apierror"
)

// Aggregator fetches sales summaries and transaction history. When the
// backend is unreachable it synthesizes a plausible dataset instead of
// surfacing an empty dashboard; synthesized results carry Synthetic=true.
type Aggregator struct {
	client repository.Client
	items  *repository.ItemRepository

	rng *rand.Rand
	now func() time.Time
}

// NewAggregator creates a sales aggregator. items is used to derive
// top-selling figures from real inventory and to reconstruct transactions
// when the dedicated endpoints are gone.
func NewAggregator(client repository.Client, items *repository.ItemRepository) *Aggregator {
	return &Aggregator{
		client: client,
		items:  items,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// SalesData fetches the aggregate sales summary. The returned error is nil
// whenever any dataset - real or synthesized - could be produced; callers
// check the Synthetic flag to tell them apart.
func (a *Aggregator) SalesData(ctx context.Context) (model.SalesData, error) {
	const op = "fetch sales data"

	body, err := a.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodGet,
		Candidates: []string{"/sales", "/api/sales", "sales"},
	})
	if err != nil {
		log.Printf("Warning: %s failed, generating mock data instead: %v", op, err)
		return a.GenerateMockSalesData(ctx), nil
	}

	var data model.SalesData
	if err := json.Unmarshal(body, &data); err != nil {
		log.Printf("Warning: %s returned an unreadable summary, generating mock data instead: %v", op, err)
		return a.GenerateMockSalesData(ctx), nil
	}

	return data, nil
}

// ItemSalesHistory fetches the transaction list for one item. Unlike the
// aggregate summary there is no synthesis fallback: absence of data is an
// empty sequence, not invented records.
func (a *Aggregator) ItemSalesHistory(ctx context.Context, itemID string) ([]model.Transaction, error) {
	const op = "fetch item sales history"

	if itemID == "" {
		return nil, apierror.Validation(op, "item id is required")
	}

	body, err := a.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodGet,
		Candidates: []string{"/sales/history/" + itemID, "/api/sales/history/" + itemID},
	})
	if err != nil {
		return nil, err
	}

	var history []model.Transaction
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, apierror.Malformed(op, "expected an array of transactions from the inventory backend")
	}
	return history, nil
}

// RecentTransactions returns the recent transaction list. It tries the
// dedicated transaction endpoints first; if every one fails it reconstructs
// an approximate list from the sales history of up to 3 items with nonzero
// cumulative sales. This path never fails: callers must treat an empty
// result as "no data", not as an error.
func (a *Aggregator) RecentTransactions(ctx context.Context) []model.Transaction {
	const op = "fetch recent transactions"

	body, err := a.client.Do(ctx, endpoint.Request{
		Op:     op,
		Method: http.MethodGet,
		Candidates: []string{
			"/transactions",
			"/api/transactions",
			"/sales/transactions",
			"/api/sales/transactions",
			"/api/sales/history",
		},
	})
	if err == nil {
		var transactions []model.Transaction
		if err := json.Unmarshal(body, &transactions); err == nil {
			return transactions
		}
		log.Printf("Warning: %s returned an unreadable list, reconstructing from item histories", op)
	} else {
		log.Printf("Warning: %s failed, reconstructing from item histories: %v", op, err)
	}

	return a.transactionsFromHistories(ctx)
}

// transactionsFromHistories approximates the transaction list by
// concatenating per-item sales histories. Limited to 3 items to avoid a
// request storm against an already struggling backend.
func (a *Aggregator) transactionsFromHistories(ctx context.Context) []model.Transaction {
	items, err := a.items.ListItems(ctx)
	if err != nil {
		log.Printf("Warning: failed to list items for transaction reconstruction: %v", err)
		return []model.Transaction{}
	}

	var withSales []model.Item
	for _, item := range items {
		if item.Sales > 0 {
			withSales = append(withSales, item)
		}
	}
	if len(withSales) > 3 {
		withSales = withSales[:3]
	}

	transactions := []model.Transaction{}
	for _, item := range withSales {
		history, err := a.ItemSalesHistory(ctx, item.ID)
		if err != nil {
			log.Printf("Warning: failed to get sales history for item %s: %v", item.Name, err)
			continue
		}
		transactions = append(transactions, history...)
	}

	return transactions
}
