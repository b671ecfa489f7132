package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/user"
)

// UserHandler exposes accounts read-only.
type UserHandler struct {
	useCase user.UseCase
	views   *Views
}

func NewUserHandler(useCase user.UseCase, views *Views) *UserHandler {
	return &UserHandler{useCase: useCase, views: views}
}

// List users.
// @Summary List users
// @Tags    users
// @Security BearerAuth
// @Produce json
// @Param   role     query string false "hr | applicant"
// @Param   search   query string false "email or name"
// @Param   ordering query string false "email, created_at, last_name; prefix - for desc"
// @Success 200 {array} UserView
// @Router  /users/ [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.useCase.List(c.UserContext(), queryValues(c))
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(users, h.views.User))
}

// Me returns the current user.
// @Summary Current user
// @Tags    users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserView
// @Router  /users/me/ [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}
	u, err := h.useCase.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.User(u))
}

// Get a user by id.
// @Summary Get user
// @Tags    users
// @Security BearerAuth
// @Produce json
// @Param   id path string true "user id"
// @Success 200 {object} UserView
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /users/{id}/ [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.useCase.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.User(u))
}
