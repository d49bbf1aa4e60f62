package helpers

import (
	"errors"
	"strconv"

	"molding-inventory/apperr"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return fiber.StatusNotFound
	case apperr.DuplicateKey:
		return fiber.StatusConflict
	case apperr.Denied:
		return fiber.StatusForbidden
	case apperr.StoreUnavailable:
		return fiber.StatusServiceUnavailable
	case apperr.InvalidQuantity, apperr.InvalidCavityIndex, apperr.ConflictingPartitionFlags, apperr.InvalidForCategory:
		return fiber.StatusUnprocessableEntity
	case apperr.InvalidInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail renders err with the status its kind maps to.
func Fail(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"message": fe.Message,
		})
	}

	kind := apperr.KindOf(err)
	return ctx.Status(StatusFor(kind)).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error":   kind,
	})
}

func BadRequest(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func OK(ctx *fiber.Ctx, message string, data any) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Created(ctx *fiber.Ctx, message string, data any) error {
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ParamID parses a positive numeric path parameter.
func ParamID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}
