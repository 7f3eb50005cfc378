package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/dailyboost/internal/auth"
	"github.com/julianstephens/dailyboost/internal/models"
)

type accountView struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func viewOf(u models.User) accountView {
	return accountView{FullName: u.FullName, Email: u.Email}
}

func (handler *Handler) GetAccounts(c *fiber.Ctx) error {
	users := handler.app.Accounts.Users()
	views := make([]accountView, 0, len(users))
	for _, u := range users {
		views = append(views, viewOf(u))
	}
	return c.JSON(views)
}

func (handler *Handler) GetCurrentAccount(c *fiber.Ctx) error {
	u, ok := handler.app.Accounts.Current()
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not signed in")
	}
	return c.JSON(fiber.Map{
		"account":  viewOf(u),
		"loggedIn": handler.app.Accounts.IsLoggedIn(),
	})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	created, err := handler.app.Accounts.Register(input.FullName, input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"ok": true, "created": created})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	u, err := handler.app.Accounts.SignIn(input.Email, input.Password, input.Remember)
	if errors.Is(err, auth.ErrNoAccount) || errors.Is(err, auth.ErrWrongCredentials) {
		return apiError(c, fiber.StatusUnauthorized, auth.ErrWrongCredentials.Error())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(u))
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if err := handler.app.Accounts.Logout(); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) SwitchAccount(c *fiber.Ctx) error {
	input := switchInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	ok, err := handler.app.Accounts.Switch(input.Email)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return notFound(c, "account")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) RemoveAccount(c *fiber.Ctx) error {
	removed, err := handler.app.Accounts.Remove(param(c, "email"))
	if err != nil {
		return respondError(c, err)
	}
	if !removed {
		return notFound(c, "account")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
