// Package policy holds the role-based authorization strategies. Every branch
// on actor role in the lifecycle services goes through a Policy instead of
// being duplicated inline.
package policy

import "repair-server/internal/models"

// Policy answers the role-dependent questions of the request and invoice
// lifecycles. Implementations must be stateless; a fresh decision is taken on
// every call.
type Policy interface {
	// ScopeToOwner reports whether list results must be narrowed to records
	// owned by the acting user.
	ScopeToOwner() bool
	// CanAssignCustomer reports whether the actor may create or move a request
	// on behalf of an arbitrary customer. When false, customer_id is forced to
	// the actor's own id regardless of the submitted value.
	CanAssignCustomer() bool
	// CanDeleteRequest reports whether the actor may delete a request in the
	// given state. An owner cannot withdraw a ticket mid-repair.
	CanDeleteRequest(status models.RequestStatus) bool
	// CanManageInvoices reports whether the actor may list, create, update or
	// delete invoices.
	CanManageInvoices() bool
}

// CustomerPolicy scopes everything to the actor's own records.
type CustomerPolicy struct{}

func (CustomerPolicy) ScopeToOwner() bool      { return true }
func (CustomerPolicy) CanAssignCustomer() bool { return false }
func (CustomerPolicy) CanDeleteRequest(status models.RequestStatus) bool {
	return status != models.RequestStatusProcess
}
func (CustomerPolicy) CanManageInvoices() bool { return false }

// MasterPolicy grants unrestricted visibility and invoice management.
type MasterPolicy struct{}

func (MasterPolicy) ScopeToOwner() bool                                { return false }
func (MasterPolicy) CanAssignCustomer() bool                           { return true }
func (MasterPolicy) CanDeleteRequest(status models.RequestStatus) bool { return true }
func (MasterPolicy) CanManageInvoices() bool                           { return true }

// ForRole returns the policy matching the given role. Unknown roles fall back
// to the most restrictive policy.
func ForRole(role models.Role) Policy {
	if role == models.RoleMaster {
		return MasterPolicy{}
	}
	return CustomerPolicy{}
}
