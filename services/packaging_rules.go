package services

import (
	"context"
	"errors"

	"molding-inventory/apperr"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/types"

	"gorm.io/gorm"
)

// maxParentDepth bounds how far a packaging parent chain is followed.
const maxParentDepth = 8

type PackagingRef struct {
	ID       uint                    `json:"id"`
	Name     string                  `json:"packaging_name"`
	Category types.PackagingCategory `json:"packaging_category"`
}

// checkPackagingRecord applies the category rules that need no lookup.
func checkPackagingRecord(op string, pkg *models.Packaging) error {
	if pkg.ParentPackagingID == nil {
		return nil
	}
	if pkg.ID != 0 && *pkg.ParentPackagingID == pkg.ID {
		return apperr.New(apperr.InvalidInput, op, "packaging %d cannot be its own parent", pkg.ID)
	}
	if pkg.Category == types.PackagingReturnable {
		return apperr.New(apperr.InvalidForCategory, op, "returnable packaging cannot have a parent")
	}
	return nil
}

// checkPackagingParent verifies the parent exists and that linking to it
// does not close a loop.
func checkPackagingParent(ctx context.Context, tx *gorm.DB, repo *repositories.CatalogRepository, pkg *models.Packaging) error {
	const op = "checkPackagingParent"
	if pkg.ParentPackagingID == nil {
		return nil
	}

	next := *pkg.ParentPackagingID
	for depth := 0; depth < maxParentDepth; depth++ {
		if pkg.ID != 0 && next == pkg.ID {
			return apperr.New(apperr.InvalidInput, op, "packaging %d would become its own ancestor", pkg.ID)
		}
		rec, err := repo.Get(ctx, tx, types.KindPackaging, next)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if depth == 0 {
				return apperr.New(apperr.NotFound, op, "parent packaging %d not found", next)
			}
			// dangling reference further up the chain ends it
			return nil
		}
		if err != nil {
			return err
		}
		parent := rec.(*models.Packaging)
		if parent.ParentPackagingID == nil {
			return nil
		}
		next = *parent.ParentPackagingID
	}
	return apperr.New(apperr.InvalidInput, op, "packaging hierarchy deeper than %d levels", maxParentDepth)
}

// checkPackagingEdge rejects partition flags on returnable packaging.
func checkPackagingEdge(op string, category types.PackagingCategory, meta EdgeMeta) error {
	if category == types.PackagingReturnable && (meta.PartitionRequired || meta.BuiltInPartitions) {
		return apperr.New(apperr.InvalidForCategory, op, "partition flags are not allowed on returnable packaging")
	}
	return nil
}

// checkPackagingEdges keeps a record from becoming Returnable while BOM
// edges to it still carry partition flags.
func checkPackagingEdges(ctx context.Context, tx *gorm.DB, bom *repositories.BOMRepository, pkg *models.Packaging) error {
	const op = "checkPackagingEdges"
	if pkg.Category != types.PackagingReturnable || pkg.ID == 0 {
		return nil
	}
	n, err := bom.CountPartitionedEdges(ctx, tx, pkg.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.New(apperr.InvalidForCategory, op, "packaging %d is used by %d BOM edges with partition flags", pkg.ID, n)
	}
	return nil
}

// ParentChain lists the packaging record followed by its ancestors, nearest
// first. At most maxParentDepth ancestors are resolved.
func (s *CatalogService) ParentChain(ctx context.Context, id uint) ([]PackagingRef, error) {
	const op = "CatalogService.ParentChain"
	var chain []PackagingRef
	seen := make(map[uint]bool)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next := id
		for len(chain) <= maxParentDepth && !seen[next] {
			rec, err := s.catalog.Get(ctx, tx, types.KindPackaging, next)
			if err != nil {
				if len(chain) > 0 && errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			pkg := rec.(*models.Packaging)
			seen[next] = true
			chain = append(chain, PackagingRef{ID: pkg.ID, Name: pkg.Name, Category: pkg.Category})
			if pkg.ParentPackagingID == nil {
				return nil
			}
			next = *pkg.ParentPackagingID
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return chain, nil
}
