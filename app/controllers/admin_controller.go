package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ReviewDesk/internal/pkg/account"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/usercontext"
)

// AdminController handles user management
type AdminController struct {
	accounts *account.Service
}

// NewAdminController creates a new admin controller
func NewAdminController(accounts *account.Service) *AdminController {
	return &AdminController{accounts: accounts}
}

// HandleUsers lists all accounts with their owned and inspected reports
func (ac *AdminController) HandleUsers(c *fiber.Ctx) error {
	users, err := ac.accounts.Users()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// HandleUserDelete marks an account as deleted
func (ac *AdminController) HandleUserDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := ac.accounts.DeleteUser(usercontext.GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
