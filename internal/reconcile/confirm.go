package reconcile

import (
	"errors"

	"github.com/lribeiro/feira/internal/model"
)

// ErrEmptyConfirmation is returned when a session is confirmed with no
// associated lines. It is the only reconciliation error that blocks a
// boundary operation and must be surfaced to the user.
var ErrEmptyConfirmation = errors.New("no associated lines to confirm")

// Confirm validates the session and produces the exportable purchase
// payload: associated lines only, stripped of the original label and the
// association flag, plus the purchase-level discount.
//
// Confirm never mutates the session. It either returns a complete payload
// or an error; there is no partial submission.
func (s *Session) Confirm() (*model.ConfirmedPurchase, error) {
	var items []model.PurchaseItem
	for i := range s.lines {
		line := &s.lines[i]
		if !line.Associated || line.ProductID == "" {
			continue
		}
		items = append(items, model.PurchaseItem{
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			Quantity:     line.Quantity,
			Price:        line.UnitPrice,
			UnitDiscount: line.UnitDiscount,
		})
	}

	if len(items) == 0 {
		return nil, ErrEmptyConfirmation
	}

	return &model.ConfirmedPurchase{
		Items:            items,
		PurchaseDiscount: s.purchaseDiscount,
	}, nil
}
