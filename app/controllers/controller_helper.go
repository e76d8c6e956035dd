package controllers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/ReviewDesk/internal/pkg/account"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/workflow"
)

var validate = validator.New()

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// respondError maps error kinds to HTTP statuses. Storage causes are logged
// by the repositories and never sent to the client.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, workflow.ErrReportDecided):
		return jsonError(c, fiber.StatusConflict, "conflict", err.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, apperror.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperror.ErrAuthorizationDenied):
		return jsonError(c, fiber.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, apperror.ErrValidation):
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, apperror.ErrPersistence):
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", err.Error())
	default:
		log.Errorf("[Controller] %s %s: %v", c.Method(), c.Path(), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Internal server error")
	}
}

// bind parses and validates the request body into dst.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation("", "malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperror.Validation(verrs[0].Field(), "failed "+verrs[0].Tag()+" check")
		}
		return apperror.Validation("", err.Error())
	}
	return nil
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("id", "must be a positive integer")
	}
	return uint(id), nil
}
