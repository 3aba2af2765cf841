package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/lribeiro/feira/internal/model"
	"github.com/lribeiro/feira/internal/reconcile"
	"github.com/lribeiro/feira/internal/service"
)

// ErrCancelled is returned when the user abandons the session.
var ErrCancelled = errors.New("reconciliation canceled")

// Prompter drives the interactive reconciliation loop: it renders session
// state, accepts commands, and applies them through the session's operations
// until the user confirms or cancels.
type Prompter struct {
	reader  *bufio.Reader
	writer  io.Writer
	catalog service.Storage
}

// NewPrompter creates a prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer, catalog service.Storage) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader:  bufio.NewReader(reader),
		writer:  writer,
		catalog: catalog,
	}
}

// Run executes the reconciliation loop. It returns the confirmed purchase
// payload, or ErrCancelled if the user quits without confirming.
func (p *Prompter) Run(ctx context.Context, session *reconcile.Session) (*model.ConfirmedPurchase, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		p.renderSession(session)
		fmt.Fprintln(p.writer, FormatPrompt("[s]can  [a]ssociate  [c]lear  [e]dit  [r]emove  [d]iscount  [p]roducts  [f]inish  [q]uit"))

		input, err := p.readLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read command: %w", err)
		}

		switch strings.ToLower(input) {
		case "s":
			p.scanBarcodes(ctx, session)
		case "a":
			p.associateLine(ctx, session)
		case "c":
			p.clearLine(session)
		case "e":
			p.editLine(session)
		case "r":
			p.removeLine(session)
		case "d":
			p.setDiscount(session)
		case "p":
			p.listProducts(ctx)
		case "f":
			purchase, err := session.Confirm()
			if err != nil {
				if errors.Is(err, reconcile.ErrEmptyConfirmation) {
					fmt.Fprintln(p.writer, FormatError("Nothing to confirm: associate at least one line first"))
					continue
				}
				return nil, err
			}
			return purchase, nil
		case "q":
			return nil, ErrCancelled
		default:
			fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Unknown command %q", input)))
		}
	}
}

func (p *Prompter) renderSession(session *reconcile.Session) {
	fmt.Fprintln(p.writer, FormatTitle("Receipt reconciliation"))

	for i, line := range session.Lines() {
		status := SubtleStyle.Render("unmatched")
		if line.Associated {
			status = SuccessStyle.Render(SuccessIcon + " " + line.ProductName)
		}
		fmt.Fprintf(p.writer, "  %2d. %-32s x%-6s @ %8.2f  -%.2f  %s\n",
			i,
			line.OriginalLabel,
			strconv.FormatFloat(line.Quantity, 'f', -1, 64),
			line.UnitPrice,
			line.UnitDiscount,
			status)
	}

	totals := session.ComputeTotals()
	fmt.Fprintf(p.writer, "\n  %s subtotal %.2f  discount %.2f  total %s\n\n",
		SubtleStyle.Render("Totals:"),
		totals.Subtotal,
		totals.PurchaseDiscount,
		BoldStyle.Render(fmt.Sprintf("%.2f", totals.Total)))
}

// scanBarcodes reads a batch of scanned codes and feeds them to the session,
// rendering one notice per barcode as each lookup resolves.
func (p *Prompter) scanBarcodes(ctx context.Context, session *reconcile.Session) {
	fmt.Fprintln(p.writer, FormatPrompt("Scan barcodes (space separated)"))
	input, err := p.readLine()
	if err != nil {
		fmt.Fprintln(p.writer, FormatError(err.Error()))
		return
	}

	barcodes := strings.Fields(input)
	if len(barcodes) == 0 {
		return
	}

	bar := progressbar.NewOptions(len(barcodes),
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetDescription("matching"),
		progressbar.OptionClearOnFinish(),
	)

	session.BulkBarcodeAssociate(ctx, barcodes, func(n reconcile.Notice) {
		_ = bar.Add(1)
		fmt.Fprintln(p.writer, p.formatNotice(n))
	})
	_ = bar.Finish()
}

func (p *Prompter) formatNotice(n reconcile.Notice) string {
	switch n.Kind {
	case reconcile.NoticeAssociated:
		return FormatSuccess(fmt.Sprintf("%s → line %d (%s, %.0f%%)",
			n.Barcode, n.LineIndex, n.ProductName, n.Score*100))
	case reconcile.NoticeMiss:
		return FormatWarning(fmt.Sprintf("%s not in catalog", n.Barcode))
	case reconcile.NoticeLowConfidence:
		return FormatWarning(fmt.Sprintf("%s (%s) matched no line confidently (best %.0f%%)",
			n.Barcode, n.ProductName, n.Score*100))
	case reconcile.NoticeExhausted:
		return FormatWarning("all lines matched, remaining scans skipped")
	default:
		return SubtleStyle.Render(string(n.Kind))
	}
}

func (p *Prompter) associateLine(ctx context.Context, session *reconcile.Session) {
	index, ok := p.promptIndex(session)
	if !ok {
		return
	}

	fmt.Fprintln(p.writer, FormatPrompt("Product id"))
	productID, err := p.readLine()
	if err != nil || productID == "" {
		return
	}

	if err := session.SetAssociationByID(ctx, index, productID); err != nil {
		fmt.Fprintln(p.writer, FormatError(err.Error()))
		return
	}
	fmt.Fprintln(p.writer, FormatSuccess("Association set"))
}

func (p *Prompter) clearLine(session *reconcile.Session) {
	index, ok := p.promptIndex(session)
	if !ok {
		return
	}
	if err := session.SetAssociation(index, nil); err != nil {
		fmt.Fprintln(p.writer, FormatError(err.Error()))
	}
}

func (p *Prompter) editLine(session *reconcile.Session) {
	index, ok := p.promptIndex(session)
	if !ok {
		return
	}

	fmt.Fprintln(p.writer, FormatPrompt("Field (quantity, unitPrice, unitDiscount)"))
	field, err := p.readLine()
	if err != nil {
		return
	}

	fmt.Fprintln(p.writer, FormatPrompt("Value"))
	value, err := p.readLine()
	if err != nil {
		return
	}

	if err := session.EditLine(index, reconcile.LineField(field), value); err != nil {
		fmt.Fprintln(p.writer, FormatError(err.Error()))
	}
}

func (p *Prompter) removeLine(session *reconcile.Session) {
	index, ok := p.promptIndex(session)
	if !ok {
		return
	}
	if err := session.RemoveLine(index); err != nil {
		fmt.Fprintln(p.writer, FormatError(err.Error()))
	}
}

func (p *Prompter) setDiscount(session *reconcile.Session) {
	fmt.Fprintln(p.writer, FormatPrompt("Purchase discount"))
	input, err := p.readLine()
	if err != nil {
		return
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
	if err != nil {
		fmt.Fprintln(p.writer, FormatWarning("Not a number, discount unchanged"))
		return
	}
	session.SetPurchaseDiscount(value)
}

func (p *Prompter) listProducts(ctx context.Context) {
	products, err := p.catalog.GetAllProducts(ctx)
	if err != nil {
		fmt.Fprintln(p.writer, FormatError(err.Error()))
		return
	}

	for _, product := range products {
		fmt.Fprintf(p.writer, "  %-20s %-32s %s\n",
			product.ID, product.Name, SubtleStyle.Render(product.Barcode))
	}
	fmt.Fprintln(p.writer)
}

func (p *Prompter) promptIndex(session *reconcile.Session) (int, bool) {
	fmt.Fprintln(p.writer, FormatPrompt("Line number"))
	input, err := p.readLine()
	if err != nil {
		return 0, false
	}

	index, err := strconv.Atoi(input)
	if err != nil || index < 0 || index >= session.Len() {
		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Invalid line number %q", input)))
		return 0, false
	}
	return index, true
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
