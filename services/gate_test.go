package services

import (
	"testing"

	"molding-inventory/apperr"
	"molding-inventory/types"

	"github.com/stretchr/testify/assert"
)

func TestPermissionGate(t *testing.T) {
	gate := PermissionGate{}
	assert.True(t, gate.Can(admin, types.CapSystemSettings))
	assert.True(t, gate.Can(types.SystemActor(), types.CapManageBOM))
	assert.True(t, gate.Can(viewer, types.CapViewInventory))
	assert.False(t, gate.Can(viewer, types.CapUpdateInventory))
	assert.False(t, gate.Can(types.ActorContext{}, types.CapViewInventory))
}

func TestAuthorize(t *testing.T) {
	err := authorize(PermissionGate{}, viewer, types.CapManageMolds, "Test.Op")
	assert.ErrorIs(t, err, apperr.ErrDenied)
	assert.Contains(t, err.Error(), "viewer")

	_, err = manageCapability(types.ItemKind("widget"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
