package policy

import (
	"testing"

	"repair-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestForRole(t *testing.T) {
	assert.IsType(t, MasterPolicy{}, ForRole(models.RoleMaster))
	assert.IsType(t, CustomerPolicy{}, ForRole(models.RoleCustomer))
	// Неизвестная роль получает самую строгую политику
	assert.IsType(t, CustomerPolicy{}, ForRole(models.Role("GHOST")))
}

func TestCustomerPolicy(t *testing.T) {
	p := CustomerPolicy{}

	assert.True(t, p.ScopeToOwner(), "customer must only see own records")
	assert.False(t, p.CanAssignCustomer(), "customer cannot create requests for others")
	assert.False(t, p.CanManageInvoices())

	assert.False(t, p.CanDeleteRequest(models.RequestStatusProcess),
		"ticket cannot be withdrawn mid-repair by its owner")
	assert.True(t, p.CanDeleteRequest(models.RequestStatusDone))
}

func TestMasterPolicy(t *testing.T) {
	p := MasterPolicy{}

	assert.False(t, p.ScopeToOwner())
	assert.True(t, p.CanAssignCustomer())
	assert.True(t, p.CanManageInvoices())
	assert.True(t, p.CanDeleteRequest(models.RequestStatusProcess))
	assert.True(t, p.CanDeleteRequest(models.RequestStatusDone))
}
