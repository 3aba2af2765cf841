package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lribeiro/feira/internal/cli"
	"github.com/lribeiro/feira/internal/common"
	"github.com/lribeiro/feira/internal/match"
	"github.com/lribeiro/feira/internal/model"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}

	cmd.AddCommand(productsListCmd())
	cmd.AddCommand(productsAddCmd())

	return cmd
}

func productsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all catalog products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			products, err := store.GetAllProducts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			if len(products) == 0 {
				fmt.Println(cli.FormatWarning("No products in catalog"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Products"))
			for _, product := range products {
				barcode := product.Barcode
				if barcode == "" {
					barcode = "-"
				}
				fmt.Printf("  %-36s %-32s %-16s %s\n", product.ID, product.Name, barcode, product.Unit)
			}

			return nil
		},
	}
}

func productsAddCmd() *cobra.Command {
	var barcode, unit string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a product to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			normalized := match.NormalizeBarcode(barcode)
			if barcode != "" && normalized == "" {
				return fmt.Errorf("%w: %q", common.ErrInvalidBarcode, barcode)
			}

			product := &model.Product{
				ID:        uuid.NewString(),
				Name:      args[0],
				Barcode:   normalized,
				Unit:      unit,
				CreatedAt: time.Now(),
			}

			if err := product.Validate(); err != nil {
				return err
			}

			if err := store.CreateProduct(ctx, product); err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Product %s created (%s)", product.Name, product.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&barcode, "barcode", "", "product barcode (stored normalized)")
	cmd.Flags().StringVar(&unit, "unit", "", "unit of measure (kg, l, un)")

	return cmd
}
