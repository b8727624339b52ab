package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/shopify"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <cart-id>\n", os.Args[0])
		os.Exit(1)
	}
	cartID := os.Args[1]

	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	storefrontClient := shopify.NewStorefrontClient(cfg.Shopify, cfg.Pricing.MetafieldNamespace, logger)
	adminClient := shopify.NewAdminClient(cfg.Shopify, logger)

	carts := service.NewCartService(storefrontClient, cfg.Pricing.DefaultCurrency, logger)
	checkout := service.NewCheckoutService(adminClient, cfg.Shopify.AdminToken, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Printf("🛒 Loading cart %s...\n", cartID)

	cart, totals, err := carts.LoadCart(ctx, cartID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load cart: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("   %d lines, custom subtotal %.2f %s (savings %.2f)\n",
		len(cart.Lines.Nodes), totals.CustomSubtotal, totals.CurrencyCode, totals.TotalSavings)

	result, err := checkout.Checkout(ctx, cart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Checkout failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Draft order created: %s (%s)\n", result.DraftOrderName, result.DraftOrderID)
	for _, lineErr := range result.LineErrors {
		fmt.Printf("   ⚠️  skipped line: %s\n", lineErr)
	}
	fmt.Printf("🔗 Invoice URL: %s\n", result.InvoiceURL)
}
