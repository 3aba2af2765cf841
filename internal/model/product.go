package model

import (
	"fmt"
	"time"
)

// Product represents an entry in the user's product catalog.
// The reconciliation engine treats products as read-only.
type Product struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Barcode   string
	Unit      string
}

// Validate checks that the product has the fields persistence requires.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	return nil
}
