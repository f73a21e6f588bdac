package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents an item listed in a vendor's catalogue. Price is in
// USD, the platform's base currency.
type Product struct {
	ID          string    `json:"id" db:"id"`
	VendorID    uuid.UUID `json:"vendorId" db:"vendor_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
