package services

import (
	"slices"

	"molding-inventory/apperr"
	"molding-inventory/types"
)

// Gate answers whether an actor may use a capability. Implementations must
// not touch the store.
type Gate interface {
	Can(actor types.ActorContext, capability types.Capability) bool
}

// PermissionGate grants admins everything and everyone else exactly the
// permissions carried on the actor.
type PermissionGate struct{}

var _ Gate = PermissionGate{}

func (PermissionGate) Can(actor types.ActorContext, capability types.Capability) bool {
	if actor.Role == types.RoleAdmin {
		return true
	}
	return slices.Contains(actor.Permissions, capability)
}

func authorize(gate Gate, actor types.ActorContext, capability types.Capability, op string) error {
	if gate.Can(actor, capability) {
		return nil
	}
	return apperr.New(apperr.Denied, op, "%s may not %s", actorName(actor), capability)
}

func actorName(actor types.ActorContext) string {
	if actor.Username != "" {
		return actor.Username
	}
	return "anonymous"
}

// manageCapability maps a catalog kind to the permission that guards writes.
func manageCapability(kind types.ItemKind) (types.Capability, error) {
	switch kind {
	case types.KindMaterial:
		return types.CapManageMaterials, nil
	case types.KindComponent:
		return types.CapManageComponents, nil
	case types.KindConsumable:
		return types.CapManageConsumables, nil
	case types.KindPackaging:
		return types.CapManagePackaging, nil
	case types.KindPart:
		return types.CapManageParts, nil
	default:
		return "", apperr.New(apperr.InvalidInput, "manageCapability", "unknown item kind %q", kind)
	}
}
