package reconcile

import (
	"context"
	"log/slog"

	"github.com/lribeiro/feira/internal/match"
	"github.com/lribeiro/feira/internal/model"
)

// NoticeKind classifies the outcome reported for one scanned barcode.
type NoticeKind string

// Bulk association outcomes.
const (
	// NoticeAssociated means the barcode's product was assigned to a line.
	NoticeAssociated NoticeKind = "associated"
	// NoticeMiss means the barcode resolved to no catalog product.
	NoticeMiss NoticeKind = "miss"
	// NoticeLowConfidence means the best candidate line scored at or below
	// the confidence floor.
	NoticeLowConfidence NoticeKind = "low_confidence"
	// NoticeExhausted means no unassociated lines remained; the rest of
	// the batch was abandoned.
	NoticeExhausted NoticeKind = "exhausted"
)

// Notice is the per-barcode commentary emitted by BulkBarcodeAssociate so
// the caller can surface progress as each lookup resolves.
type Notice struct {
	Kind        NoticeKind
	Barcode     string
	ProductID   string
	ProductName string
	LineIndex   int
	Score       float64
}

// BulkBarcodeAssociate matches a batch of physically scanned barcodes
// against the session's unassociated lines. Barcodes are processed strictly
// in sequence, each lookup awaited before the next begins: this bounds
// outstanding catalog calls to one, and it means every association made
// earlier in the batch narrows the candidate pool for later barcodes.
//
// For each barcode the product is resolved via the fast path (raw code,
// then one normalized retry), its price history is fetched best-effort, and
// every currently unassociated line is scored against it. The best-scoring
// line is assigned when its score exceeds the confidence floor; otherwise
// the barcode is skipped. Each line can be consumed at most once per batch.
// The assignment is greedy per barcode, not a globally optimal matching.
//
// onNotice, when non-nil, is invoked for each barcode as its outcome
// resolves; the full notice list is also returned.
func (s *Session) BulkBarcodeAssociate(ctx context.Context, barcodes []string, onNotice func(Notice)) []Notice {
	notices := make([]Notice, 0, len(barcodes))
	emit := func(n Notice) {
		notices = append(notices, n)
		if onNotice != nil {
			onNotice(n)
		}
	}

	for _, code := range barcodes {
		select {
		case <-ctx.Done():
			return notices
		default:
		}

		remaining := s.unassociatedIndices()
		if len(remaining) == 0 {
			emit(Notice{Kind: NoticeExhausted, Barcode: code, LineIndex: -1})
			slog.Info("All lines associated, abandoning remaining barcodes",
				"remaining_barcodes", len(barcodes)-len(notices)+1)
			break
		}

		product := s.resolveBarcode(ctx, code)
		if product == nil {
			emit(Notice{Kind: NoticeMiss, Barcode: code, LineIndex: -1})
			slog.Info("Scanned barcode not in catalog", "barcode", code)
			continue
		}

		history := s.lookup.FetchPriceHistory(ctx, product.ID)
		best := s.bestCandidate(remaining, *product, history)

		if best.Score <= match.ConfidenceFloor {
			emit(Notice{
				Kind:        NoticeLowConfidence,
				Barcode:     code,
				ProductID:   product.ID,
				ProductName: product.Name,
				LineIndex:   -1,
				Score:       best.Score,
			})
			slog.Info("No line matched scanned product with enough confidence",
				"barcode", code,
				"product", product.Name,
				"best_score", best.Score)
			continue
		}

		s.lines[best.LineIndex].Associate(*product)
		emit(Notice{
			Kind:        NoticeAssociated,
			Barcode:     code,
			ProductID:   product.ID,
			ProductName: product.Name,
			LineIndex:   best.LineIndex,
			Score:       best.Score,
		})
		slog.Info("Line associated from scanned barcode",
			"barcode", code,
			"product", product.Name,
			"line", best.LineIndex,
			"score", best.Score)
	}

	return notices
}

// bestCandidate scores a product against the given line indices and returns
// the highest-scoring pair. Ties keep the earliest line.
func (s *Session) bestCandidate(indices []int, product model.Product, history []float64) model.MatchScore {
	best := model.MatchScore{LineIndex: -1, Score: -1}

	for _, i := range indices {
		score := match.Score(s.lines[i], product, history)
		if score > best.Score {
			best = model.MatchScore{Product: product, LineIndex: i, Score: score}
		}
	}

	return best
}
