package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/event"
)

// EventHandler serves calendar events of a candidate.
type EventHandler struct {
	useCase event.UseCase
	views   *Views
}

func NewEventHandler(useCase event.UseCase, views *Views) *EventHandler {
	return &EventHandler{useCase: useCase, views: views}
}

// List events in calendar order.
// @Summary List events
// @Tags    events
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Success 200 {array} EventView
// @Router  /candidates/{cid}/events/ [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid")
	if err != nil {
		return err
	}
	out, err := h.useCase.List(c.UserContext(), user, ids[0])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.Event))
}

// @Summary Create event
// @Tags    events
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string       true "candidate id"
// @Param   input body event.Fields true "event"
// @Success 201 {object} EventView
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidates/{cid}/events/ [post]
func (h *EventHandler) Create(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid")
	if err != nil {
		return err
	}
	var f event.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Create(c.UserContext(), user, ids[0], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.Event(out))
}

// @Summary Get event
// @Tags    events
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Param   id  path string true "event id"
// @Success 200 {object} EventView
// @Router  /candidates/{cid}/events/{id}/ [get]
func (h *EventHandler) Get(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "id")
	if err != nil {
		return err
	}
	out, err := h.useCase.Get(c.UserContext(), user, ids[0], ids[1])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Event(out))
}

// @Summary Replace event
// @Tags    events
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string       true "candidate id"
// @Param   id    path string       true "event id"
// @Param   input body event.Fields true "event"
// @Success 200 {object} EventView
// @Router  /candidates/{cid}/events/{id}/ [put]
func (h *EventHandler) Replace(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "id")
	if err != nil {
		return err
	}
	var f event.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Replace(c.UserContext(), user, ids[0], ids[1], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Event(out))
}

// @Summary Update event
// @Tags    events
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string       true "candidate id"
// @Param   id    path string       true "event id"
// @Param   input body event.Fields true "fields to change"
// @Success 200 {object} EventView
// @Router  /candidates/{cid}/events/{id}/ [patch]
func (h *EventHandler) Update(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "id")
	if err != nil {
		return err
	}
	var p event.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.Update(c.UserContext(), user, ids[0], ids[1], p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Event(out))
}

// @Summary Delete event
// @Tags    events
// @Security BearerAuth
// @Param   cid path string true "candidate id"
// @Param   id  path string true "event id"
// @Success 204
// @Router  /candidates/{cid}/events/{id}/ [delete]
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "id")
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), user, ids[0], ids[1]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
