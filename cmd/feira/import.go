package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lribeiro/feira/internal/catalog"
	"github.com/lribeiro/feira/internal/cli"
	"github.com/lribeiro/feira/internal/common"
	"github.com/lribeiro/feira/internal/parser"
	"github.com/lribeiro/feira/internal/reconcile"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <receipt.json>",
		Short: "Reconcile a receipt against the product catalog",
		Long: `Import reads a receipt extraction payload, matches its line items
against the product catalog, and opens an interactive session where you can
scan barcodes, adjust associations, and confirm the purchase.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open receipt file: %w", err)
	}
	defer func() { _ = file.Close() }()

	lines, err := parser.NewParser().ParseFile(ctx, file)
	if err != nil {
		return common.NewUserError("Receipt file could not be parsed", err)
	}
	if len(lines) == 0 {
		return common.NewUserError("Receipt has no line items", common.ErrNoLines)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	session := reconcile.NewSession(ctx, catalog.NewAdapter(store), lines)

	prompter := cli.NewPrompter(os.Stdin, os.Stdout, store)
	confirmed, err := prompter.Run(ctx, session)
	if err != nil {
		if errors.Is(err, cli.ErrCancelled) {
			fmt.Println(cli.FormatWarning("Session canceled, nothing saved"))
			return nil
		}
		return err
	}

	purchase, err := store.SavePurchase(ctx, confirmed)
	if err != nil {
		return common.NewUserError("Purchase could not be saved", err)
	}

	slog.Info("Purchase saved",
		"id", purchase.ID,
		"items", len(purchase.Items),
		"total", purchase.Total)
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Purchase saved: %d items, total %.2f", len(purchase.Items), purchase.Total)))

	return nil
}
