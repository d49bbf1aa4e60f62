package services

import (
	"math"

	"molding-inventory/apperr"
	"molding-inventory/models"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// CavityAssignment is the slice of a cavity record the calculator needs.
type CavityAssignment struct {
	MoldID       uint `json:"mold_id"`
	CavityNumber int  `json:"cavity_number"`
	PartID       uint `json:"part_id"`
	PartsPerShot int  `json:"parts_per_shot"`
}

// MaterialInput is one material edge of a part together with current stock.
type MaterialInput struct {
	MaterialID      uint
	Name            string
	Unit            string
	QuantityPerPart decimal.Decimal
	CurrentStock    decimal.Decimal
}

type MaterialRequirement struct {
	MaterialID      uint            `json:"material_id"`
	Name            string          `json:"material_name"`
	Unit            string          `json:"unit"`
	QuantityPerPart decimal.Decimal `json:"quantity_per_part"`
	Needed          decimal.Decimal `json:"needed"`
	Available       decimal.Decimal `json:"available"`
	Shortage        decimal.Decimal `json:"shortage"`
	Sufficient      bool            `json:"sufficient"`
}

// RequirementReport answers "what does it take to make T of this part".
// CyclesNeeded is nil when no cavity produces the part.
type RequirementReport struct {
	PartID        uint                  `json:"part_id"`
	PartNumber    string                `json:"part_number,omitempty"`
	Target        int64                 `json:"target_quantity"`
	PartsPerCycle int64                 `json:"parts_per_cycle"`
	CyclesNeeded  *int64                `json:"cycles_needed"`
	Materials     []MaterialRequirement `json:"materials"`
	AllSufficient bool                  `json:"all_sufficient"`
}

// CalculateRequirements derives cycles and material needs for target units of
// a part. Only cavities assigned to partID count toward the cycle yield.
//
// Material need is quantityPerPart × target, independent of the cycle count.
func CalculateRequirements(partID uint, cavities []CavityAssignment, materials []MaterialInput, target int64) (RequirementReport, error) {
	const op = "CalculateRequirements"
	if target <= 0 {
		return RequirementReport{}, apperr.New(apperr.InvalidQuantity, op, "target quantity must be positive, got %d", target)
	}

	var perCycle int64
	for _, c := range cavities {
		if c.PartID != partID {
			continue
		}
		if c.PartsPerShot < 1 {
			return RequirementReport{}, apperr.New(apperr.InvalidQuantity, op, "cavity %d of mold %d has %d parts per shot", c.CavityNumber, c.MoldID, c.PartsPerShot)
		}
		perCycle += int64(c.PartsPerShot)
	}

	report := RequirementReport{
		PartID:        partID,
		Target:        target,
		PartsPerCycle: perCycle,
		Materials:     make([]MaterialRequirement, 0, len(materials)),
		AllSufficient: true,
	}
	if perCycle > 0 {
		cycles := ceilDiv(target, perCycle)
		report.CyclesNeeded = &cycles
	}

	t := decimal.NewFromInt(target)
	for _, m := range materials {
		needed := m.QuantityPerPart.Mul(t)
		shortage := needed.Sub(m.CurrentStock)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		sufficient := m.CurrentStock.GreaterThanOrEqual(needed)
		if !sufficient {
			report.AllSufficient = false
		}
		report.Materials = append(report.Materials, MaterialRequirement{
			MaterialID:      m.MaterialID,
			Name:            m.Name,
			Unit:            m.Unit,
			QuantityPerPart: m.QuantityPerPart,
			Needed:          needed,
			Available:       m.CurrentStock,
			Shortage:        shortage,
			Sufficient:      sufficient,
		})
	}
	return report, nil
}

// ShotPlan is the mold-level view: how many shots and how much material a
// run of target parts takes when every cavity yields one part.
type ShotPlan struct {
	MoldID         uint            `json:"mold_id"`
	MoldNumber     string          `json:"mold_number"`
	TargetParts    int64           `json:"target_parts"`
	TotalCavities  int             `json:"total_cavities"`
	ShotsNeeded    int64           `json:"shots_needed"`
	ShotSize       decimal.Decimal `json:"shot_size"`
	MaterialNeeded decimal.Decimal `json:"material_needed"`
	Unit           string          `json:"unit"`
}

func MaterialForParts(mold models.Mold, targetParts int64) (ShotPlan, error) {
	const op = "MaterialForParts"
	if targetParts <= 0 {
		return ShotPlan{}, apperr.New(apperr.InvalidQuantity, op, "target parts must be positive, got %d", targetParts)
	}
	if err := checkMoldShape(op, mold); err != nil {
		return ShotPlan{}, err
	}

	shots := ceilDiv(targetParts, int64(mold.TotalCavities))
	return ShotPlan{
		MoldID:         mold.ID,
		MoldNumber:     mold.MoldNumber,
		TargetParts:    targetParts,
		TotalCavities:  mold.TotalCavities,
		ShotsNeeded:    shots,
		ShotSize:       mold.ShotSize,
		MaterialNeeded: mold.ShotSize.Mul(decimal.NewFromInt(shots)),
		Unit:           shotUnit(mold),
	}, nil
}

// MaxPartsFromMaterial is floor(available / shotSize) × totalCavities.
func MaxPartsFromMaterial(mold models.Mold, available decimal.Decimal) (int64, error) {
	const op = "MaxPartsFromMaterial"
	if available.IsNegative() {
		return 0, apperr.New(apperr.InvalidQuantity, op, "available material must not be negative, got %s", available)
	}
	if err := checkMoldShape(op, mold); err != nil {
		return 0, err
	}
	shots, _ := available.QuoRem(mold.ShotSize, 0)
	parts := shots.Mul(decimal.NewFromInt(int64(mold.TotalCavities)))
	if parts.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, apperr.New(apperr.InvalidQuantity, op, "available material %s yields more parts than can be counted", available)
	}
	return parts.IntPart(), nil
}

func checkMoldShape(op string, mold models.Mold) error {
	if mold.TotalCavities < 1 {
		return apperr.New(apperr.InvalidQuantity, op, "mold %s has %d cavities", mold.MoldNumber, mold.TotalCavities)
	}
	if !mold.ShotSize.IsPositive() {
		return apperr.New(apperr.InvalidQuantity, op, "mold %s has shot size %s", mold.MoldNumber, mold.ShotSize)
	}
	return nil
}

func shotUnit(mold models.Mold) string {
	if mold.ShotSizeUnit == "" {
		return "lbs"
	}
	return mold.ShotSizeUnit
}

// ceilDiv rounds up a positive quotient without overflowing near the top of
// T's range.
func ceilDiv[T constraints.Integer](a, b T) T {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
