package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a repair ticket.
type RequestStatus string

const (
	RequestStatusProcess RequestStatus = "PROCESS"
	RequestStatusDone    RequestStatus = "DONE"
)

// IsValid reports whether the status is one of the known values.
func (s RequestStatus) IsValid() bool {
	return s == RequestStatusProcess || s == RequestStatusDone
}

// Request is a repair ticket owned by a customer. New tickets always start in
// PROCESS; the transition to DONE (and back) happens only via explicit update.
type Request struct {
	ID                 uuid.UUID     `db:"id" json:"id"`
	Status             RequestStatus `db:"status" json:"status"`
	PhoneModel         string        `db:"phone_model" json:"phone_model"`
	ProblemDescription string        `db:"problem_description" json:"problem_description"`
	CustomerID         uuid.UUID     `db:"customer_id" json:"customer"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// RequestFilters narrows List results. Zero values mean "no filter".
type RequestFilters struct {
	CustomerID *uuid.UUID
	Status     RequestStatus
	PhoneModel string
	Problem    string // substring match on problem_description
}
