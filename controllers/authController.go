package controllers

import (
	"staffhub-backend/middlewares"
	"staffhub-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB   *gorm.DB
	Auth middlewares.Auth
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	store := services.NewCredentialStore(ac.DB.WithContext(c.UserContext()))
	user, err := store.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":         user.Id,
		"name":       user.Name,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	store := services.NewCredentialStore(ac.DB.WithContext(c.UserContext()))
	user, err := store.Authenticate(c.UserContext(), in)
	if err != nil {
		return err
	}

	token, err := ac.Auth.Issue(user.Id, user.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":          user.Id,
			"name":        user.Name,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"role":        user.Role,
			"permissions": user.Permissions,
			"avatar":      user.Avatar,
		},
	})
}
