package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "UNPAID"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

// IsValid reports whether the status is one of the known values.
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPaid
}

// Invoice is a bill attached to a finished repair request. It can only be
// created once the request has left PROCESS, and becomes immutable once PAID.
type Invoice struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Price     float64       `db:"price" json:"price"`
	Status    InvoiceStatus `db:"status" json:"status"`
	RequestID uuid.UUID     `db:"request_id" json:"request"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
