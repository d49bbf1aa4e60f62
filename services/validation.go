package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"molding-inventory/apperr"
	"molding-inventory/types"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Largest values the quantity columns hold on every supported dialect.
var (
	maxWholeQuantity   = decimal.NewFromInt(math.MaxInt32)
	maxMaterialStock   = decimal.RequireFromString("99999999.99") // decimal(10,2)
	maxMaterialPerPart = decimal.RequireFromString("999999.9999") // decimal(10,4)
	maxShotSize        = decimal.RequireFromString("9999.9999")   // decimal(8,4)
)

// checkStockRange rejects a stock or reorder value that the kind's column
// cannot store exactly.
func checkStockRange(op string, kind types.ItemKind, q decimal.Decimal) error {
	limit := maxWholeQuantity
	if !kind.WholeUnits() {
		limit = maxMaterialStock
	}
	if q.GreaterThan(limit) {
		return apperr.New(apperr.InvalidQuantity, op, "%s quantity %s exceeds the maximum of %s", kind, q, limit)
	}
	return nil
}

// validateStruct runs the struct tags and folds failures into one
// InvalidInput error.
func validateStruct(op string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.InvalidInput, op, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return apperr.New(apperr.InvalidInput, op, "%s", strings.Join(msgs, "; "))
}
