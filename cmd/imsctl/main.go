package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"ims-client/internal/auth"
	"ims-client/internal/cache"
	"ims-client/internal/config"
	"ims-client/internal/endpoint"
	"ims-client/internal/model"
	"ims-client/internal/repository"
	"ims-client/internal/sales"
	"ims-client/internal/session"
	"ims-client/pkg/apierror"
	"ims-client/pkg/format"
)

// app bundles the wired dependencies every subcommand works against.
type app struct {
	items      *repository.ItemRepository
	categories *repository.CategoryRepository
	sales      *sales.Aggregator
	auth       *auth.Service
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.MustLoad()

	sessions, err := session.Open(cfg.Session.Path)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer sessions.Close()

	var store cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis cache unavailable, using memory cache: %v", err)
			store = cache.NewMemoryCache()
		} else {
			defer redisCache.Close()
			store = redisCache
		}
	default:
		store = cache.NewMemoryCache()
	}

	client := endpoint.New(endpoint.Config{
		BaseURL:     cfg.API.BaseURL,
		FallbackURL: cfg.API.FallbackURL,
		Timeout:     cfg.API.RequestTimeout,
	}, sessions)

	itemRepo := repository.NewItemRepository(client, store, cfg.Cache.TTL)
	categoryRepo := repository.NewCategoryRepository(client, store, cfg.Cache.TTL)

	a := app{
		items:      itemRepo,
		categories: categoryRepo,
		sales:      sales.NewAggregator(client, itemRepo),
		auth:       auth.New(sessions),
	}

	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "items":
		return a.itemsCmd(ctx, args)
	case "categories":
		return a.categoriesCmd(ctx, args)
	case "sales":
		return a.salesCmd(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: imsctl login <username> <password>")
	}
	user, err := a.auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (a app) whoami(ctx context.Context) error {
	user, ok := a.auth.CurrentUser(ctx)
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.Username, user.Role)
	return nil
}

func (a app) itemsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: imsctl items <list|add|update|adjust|remove|sell|low-stock|update-prices> ...")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("items list", flag.ExitOnError)
		category := fs.String("category", "All", "filter by category name")
		fs.Parse(args[1:])

		items, err := a.items.ItemsByCategory(ctx, *category)
		if err != nil {
			return err
		}
		printItems(items)
		return nil

	case "add", "update":
		fs := flag.NewFlagSet("items "+args[0], flag.ExitOnError)
		id := fs.String("id", "", "item id (update only)")
		name := fs.String("name", "", "item name")
		category := fs.String("category", "", "category name")
		description := fs.String("description", "", "free-text description")
		price := fs.Float64("price", 0, "unit price")
		quantity := fs.Int("quantity", 0, "stock quantity")
		minStock := fs.Int("min-stock", 0, "low-stock threshold")
		imageURL := fs.String("image", "", "image URL")
		fs.Parse(args[1:])

		input := model.ItemInput{
			ID:          *id,
			Name:        *name,
			Category:    *category,
			Description: *description,
			Price:       model.FlexFloat(*price),
			Quantity:    model.FlexInt(*quantity),
			MinStock:    model.FlexInt(*minStock),
			ImageURL:    *imageURL,
		}

		var item model.Item
		var err error
		if args[0] == "update" {
			if *id == "" {
				return apierror.Validation("update item", "item id is required")
			}
			item, err = a.items.UpdateItem(ctx, *id, input)
		} else {
			item, err = a.items.AddItem(ctx, input)
		}
		if err != nil {
			return err
		}
		printItems([]model.Item{item})
		return nil

	case "adjust":
		if len(args) != 3 {
			return fmt.Errorf("usage: imsctl items adjust <id> <delta>")
		}
		delta, err := strconv.Atoi(args[2])
		if err != nil {
			return apierror.Validation("adjust quantity", "quantity change must be a number")
		}
		item, err := a.items.AdjustQuantity(ctx, args[1], delta)
		if err != nil {
			return err
		}
		printItems([]model.Item{item})
		return nil

	case "remove":
		if len(args) != 2 && len(args) != 3 {
			return fmt.Errorf("usage: imsctl items remove <id> [quantity]")
		}
		var quantity *int
		if len(args) == 3 {
			q, err := strconv.Atoi(args[2])
			if err != nil {
				return apierror.Validation("remove item", "quantity must be a number")
			}
			quantity = &q
		}
		item, err := a.items.RemoveItem(ctx, args[1], quantity)
		if err != nil {
			return err
		}
		if item == nil {
			fmt.Println("Item removed")
		} else {
			printItems([]model.Item{*item})
		}
		return nil

	case "sell":
		if len(args) != 3 {
			return fmt.Errorf("usage: imsctl items sell <id> <quantity>")
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return apierror.Validation("sell item", "quantity to sell must be a number")
		}
		item, err := a.items.SellItem(ctx, args[1], quantity)
		if err != nil {
			return err
		}
		printItems([]model.Item{item})
		return nil

	case "low-stock":
		items, err := a.items.LowStockItems(ctx)
		if err != nil {
			return err
		}
		printItems(items)
		return nil

	case "update-prices":
		if err := a.items.UpdateAllPrices(ctx); err != nil {
			return err
		}
		fmt.Println("Prices updated")
		return nil

	default:
		return fmt.Errorf("unknown items subcommand %q", args[0])
	}
}

func (a app) categoriesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: imsctl categories <list|add|update|remove> ...")
	}

	switch args[0] {
	case "list":
		categories, err := a.categories.ListCategories(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, c := range categories {
			fmt.Fprintf(w, "%s\t%s\n", c.Key(), c.Name)
		}
		return w.Flush()

	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: imsctl categories add <name>")
		}
		category, err := a.categories.AddCategory(ctx, model.Category{Name: args[1]})
		if err != nil {
			return err
		}
		fmt.Printf("Added category %s (%s)\n", category.Name, category.Key())
		return nil

	case "update":
		if len(args) != 3 {
			return fmt.Errorf("usage: imsctl categories update <id> <name>")
		}
		category, err := a.categories.UpdateCategory(ctx, args[1], model.Category{Name: args[2]})
		if err != nil {
			return err
		}
		fmt.Printf("Updated category %s\n", category.Name)
		return nil

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: imsctl categories remove <id>")
		}
		if err := a.categories.RemoveCategory(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Category removed")
		return nil

	default:
		return fmt.Errorf("unknown categories subcommand %q", args[0])
	}
}

func (a app) salesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: imsctl sales <summary|history|transactions|revenue>")
	}

	switch args[0] {
	case "summary":
		data, err := a.sales.SalesData(ctx)
		if err != nil {
			return err
		}
		printSalesData(data)
		return nil

	case "history":
		if len(args) != 2 {
			return fmt.Errorf("usage: imsctl sales history <item-id>")
		}
		history, err := a.sales.ItemSalesHistory(ctx, args[1])
		if err != nil {
			return err
		}
		printTransactions(history)
		return nil

	case "transactions":
		printTransactions(a.sales.RecentTransactions(ctx))
		return nil

	case "revenue":
		transactions := a.sales.RecentTransactions(ctx)
		rows := sales.SortedMonthlyRevenue(sales.MonthlyRevenue(transactions))
		if len(rows) == 0 {
			fmt.Println("No revenue data available yet")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MONTH\tREVENUE")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\n", row.Month, format.Currency(row.Revenue, true))
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown sales subcommand %q", args[0])
	}
}

func printItems(items []model.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tQTY\tMIN\tSALES\tREVENUE\tSTATUS")
	for _, item := range items {
		status := "ok"
		if item.OutOfStock() {
			status = "out of stock"
		} else if item.LowStock() {
			status = "low stock"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			item.ID, item.Name, item.Category,
			format.Currency(item.Price, true),
			item.Quantity, item.MinStock, item.Sales,
			format.Currency(item.Revenue, false),
			status,
		)
	}
	w.Flush()
}

func printSalesData(data model.SalesData) {
	if data.Synthetic {
		fmt.Println("(backend unavailable - showing synthesized figures)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WEEKLY\tDATE\tSALES\tSTOCK ADDED")
	for _, day := range data.WeeklySales {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", day.Day, day.Date, day.Sales, day.StockAdded)
	}
	fmt.Fprintln(w, "\nMONTHLY\tDATE\tSALES\tSTOCK ADDED")
	for _, week := range data.MonthlySales {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", week.Day, week.Date, week.Sales, week.StockAdded)
	}
	fmt.Fprintln(w, "\nYEARLY\tYEAR\tSALES\tSTOCK ADDED")
	for _, month := range data.YearlySales {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", month.Month, month.Year, month.Sales, month.StockAdded)
	}
	w.Flush()

	if len(data.TopSellingItems) > 0 {
		fmt.Println("\nTop selling items:")
		printItems(data.TopSellingItems)
	}
	if len(data.LowStockItems) > 0 {
		fmt.Println("\nLow stock items:")
		printItems(data.LowStockItems)
	}
}

func printTransactions(transactions []model.Transaction) {
	if len(transactions) == 0 {
		fmt.Println("No transactions")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tITEM\tQTY\tTOTAL")
	for _, tx := range transactions {
		date := tx.Date
		if date == "" {
			date = tx.Timestamp
		}
		name := tx.ItemName
		if name == "" {
			name = tx.ItemID
		}
		quantity := 0
		if tx.Quantity != nil {
			quantity = tx.Quantity.Int()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", date, name, quantity,
			format.Currency(sales.TransactionAmount(tx), true))
	}
	w.Flush()
}

func usage() {
	fmt.Fprintln(os.Stderr, `imsctl - inventory backend client

Usage:
  imsctl login <username> <password>
  imsctl logout
  imsctl whoami
  imsctl items <list|add|update|adjust|remove|sell|low-stock|update-prices> [flags]
  imsctl categories <list|add|update|remove> [args]
  imsctl sales <summary|history|transactions|revenue> [args]`)
}
