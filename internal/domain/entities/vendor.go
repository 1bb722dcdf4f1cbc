package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorStatus is the lifecycle state of a vendor account
type VendorStatus string

const (
	VendorPending   VendorStatus = "pending"
	VendorApproved  VendorStatus = "approved"
	VendorSuspended VendorStatus = "suspended"
	VendorRejected  VendorStatus = "rejected"
)

// Vendor represents a seller on the marketplace
type Vendor struct {
	ID             string          `json:"_id,omitempty"`
	UserID         string          `json:"userId,omitempty"`
	BusinessName   string          `json:"businessName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Status         VendorStatus    `json:"status"`
	CommissionRate decimal.Decimal `json:"commissionRate"` // percent of each sale
	Address        *Address        `json:"address,omitempty"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt,omitempty"`
}

// Address is a postal address
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Commission returns the vendor's share of a sale amount, rounded to cents
func (v *Vendor) Commission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(v.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
}
