package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lribeiro/feira/internal/cli"
	"github.com/lribeiro/feira/internal/service"
)

func purchasesCmd() *cobra.Command {
	var since string
	var limit int

	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "List confirmed purchases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.PurchaseFilter{Limit: limit}
			if since != "" {
				start, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date %q, expected YYYY-MM-DD: %w", since, err)
				}
				filter.StartDate = &start
			}

			purchases, err := store.GetPurchases(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list purchases: %w", err)
			}

			if len(purchases) == 0 {
				fmt.Println(cli.FormatWarning("No purchases found"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Purchases"))
			for _, purchase := range purchases {
				fmt.Printf("  %s  %s  %2d items  total %8.2f\n",
					purchase.CreatedAt.Format("2006-01-02"),
					purchase.ID,
					len(purchase.Items),
					purchase.Total)
				for _, item := range purchase.Items {
					fmt.Printf("      %-32s x%-6.2f @ %8.2f\n", item.ProductName, item.Quantity, item.Price)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "only purchases on or after this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of purchases to show (0 = all)")

	return cmd
}
