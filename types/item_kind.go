package types

import "fmt"

// ItemKind is the closed set of catalog record kinds that carry stock.
type ItemKind string

const (
	KindMaterial   ItemKind = "material"
	KindComponent  ItemKind = "component"
	KindConsumable ItemKind = "consumable"
	KindPackaging  ItemKind = "packaging"
	KindPart       ItemKind = "finished_part"
)

// AllItemKinds lists every kind in display order.
var AllItemKinds = []ItemKind{KindMaterial, KindComponent, KindConsumable, KindPackaging, KindPart}

// ParseItemKind accepts the canonical tag plus the short "part" alias used
// by the inventory screens.
func ParseItemKind(s string) (ItemKind, error) {
	switch s {
	case "material", "materials":
		return KindMaterial, nil
	case "component", "components":
		return KindComponent, nil
	case "consumable", "consumables":
		return KindConsumable, nil
	case "packaging":
		return KindPackaging, nil
	case "finished_part", "part", "parts":
		return KindPart, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

func (k ItemKind) Valid() bool {
	switch k {
	case KindMaterial, KindComponent, KindConsumable, KindPackaging, KindPart:
		return true
	default:
		return false
	}
}

// IsBOMTarget reports whether a part's BOM may point at this kind.
func (k ItemKind) IsBOMTarget() bool {
	switch k {
	case KindMaterial, KindComponent, KindConsumable, KindPackaging:
		return true
	default:
		return false
	}
}

// WholeUnits reports whether stock for this kind is counted in whole units.
// Materials are weighed and keep fractional stock.
func (k ItemKind) WholeUnits() bool {
	return k != KindMaterial
}

func (k ItemKind) String() string {
	return string(k)
}

// PartKind distinguishes parts shipped straight off the press from parts
// that go through assembly.
type PartKind string

const (
	PartShootShip  PartKind = "shoot_ship"
	PartValueAdded PartKind = "value_added"
)

// PackagingCategory of a packaging record.
type PackagingCategory string

const (
	PackagingReturnable PackagingCategory = "Returnable"
	PackagingAlternate  PackagingCategory = "Alternate"
)

// TransactionAction tags why a ledger row was written.
type TransactionAction string

const (
	ActionPhysicalCount TransactionAction = "physical_count"
	ActionReceived      TransactionAction = "received"
	ActionUsed          TransactionAction = "used"
	ActionAdjust        TransactionAction = "adjust"
)

func (a TransactionAction) Valid() bool {
	switch a {
	case ActionPhysicalCount, ActionReceived, ActionUsed, ActionAdjust:
		return true
	default:
		return false
	}
}
