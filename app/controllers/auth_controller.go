package controllers

import (
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/account"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/session"
)

type registrationRequest struct {
	Username string      `json:"username" form:"username" validate:"required,min=3,max=150"`
	Email    string      `json:"email" form:"email" validate:"required,email"`
	Password string      `json:"password" form:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" form:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AuthController handles registration and the login session.
type AuthController struct {
	accounts *account.Service
	store    *fibersession.Store
}

func NewAuthController(accounts *account.Service, store *fibersession.Store) *AuthController {
	return &AuthController{accounts: accounts, store: store}
}

// HandleRegistration creates an Owner or Inspector account
func (ac *AuthController) HandleRegistration(c *fiber.Ctx) error {
	var req registrationRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := ac.accounts.Register(req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin authenticates by email and starts a session
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	// notice: unknown email and wrong password give the same answer
	user, err := ac.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	if err := session.Login(ac.store, c, user.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleLogout ends the session
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.Logout(ac.store, c); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}
