package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/pricing"
	"github.com/jafarshop/storefront/internal/shopify"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <product-handle>\n", os.Args[0])
		os.Exit(1)
	}
	handle := os.Args[1]

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

	client := shopify.NewStorefrontClient(cfg.Shopify, cfg.Pricing.MetafieldNamespace, logger)

	fmt.Printf("🔍 Fetching product %q from %s...\n", handle, cfg.Shopify.ShopDomain)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	product, err := client.GetProductByHandle(ctx, handle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch product: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n📦 %s (%s)\n", product.Title, product.ID)

	fields := pricing.ProductMetafields(product)
	fmt.Println("\nProduct metafields:")
	fmt.Printf("  custom_price:            %q\n", fields.Price)
	fmt.Printf("  discount_percentage:     %q\n", fields.DiscountPercentage)
	fmt.Printf("  discount_fixed_amount:   %q\n", fields.DiscountFixedAmount)

	currency := cfg.Pricing.DefaultCurrency
	if cc := pricing.MetafieldCurrency(product.CustomPrice); cc != "" {
		currency = cc
	}

	if calc := pricing.CalculateForProduct(product, currency); calc != nil {
		fmt.Printf("\n💰 Product price: %s -> %s %s (discount %s, type %s)\n",
			calc.OriginalPrice, calc.FinalPrice, calc.CurrencyCode, calc.DiscountAmount, calc.DiscountType)
	} else {
		fmt.Println("\n💰 No custom price configured at product level")
	}

	for _, variant := range product.Variants.Nodes {
		calc := pricing.CalculateForVariant(&variant, product, currency)
		if calc == nil {
			fmt.Printf("  %-40s no custom price\n", variant.Title)
			continue
		}
		fmt.Printf("  %-40s %s -> %s (%s off, %s)\n",
			variant.Title, calc.OriginalPrice, calc.FinalPrice, calc.DiscountAmount, calc.DiscountType)
	}
}
