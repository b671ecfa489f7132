package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/funnel"
)

// FunnelHandler serves funnel stages and their sub-stages of one candidate.
type FunnelHandler struct {
	useCase funnel.UseCase
	views   *Views
}

func NewFunnelHandler(useCase funnel.UseCase, views *Views) *FunnelHandler {
	return &FunnelHandler{useCase: useCase, views: views}
}

// List stages of a candidate.
// @Summary List funnel stages
// @Tags    funnel
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Success 200 {array} StageView
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{cid}/funnel/ [get]
func (h *FunnelHandler) List(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid")
	if err != nil {
		return err
	}
	out, err := h.useCase.List(c.UserContext(), user, ids[0])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.Stage))
}

// Create a stage, optionally with sub-stages.
// @Summary Create funnel stage
// @Tags    funnel
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string            true "candidate id"
// @Param   input body funnel.StageInput true "stage"
// @Success 201 {object} StageView
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidates/{cid}/funnel/ [post]
func (h *FunnelHandler) Create(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid")
	if err != nil {
		return err
	}
	var in funnel.StageInput
	if err := decode(c, &in); err != nil {
		return err
	}
	out, err := h.useCase.Create(c.UserContext(), user, ids[0], in)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.Stage(out))
}

// Get a stage.
// @Summary Get funnel stage
// @Tags    funnel
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Param   fid path string true "stage id"
// @Success 200 {object} StageView
// @Router  /candidates/{cid}/funnel/{fid}/ [get]
func (h *FunnelHandler) Get(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid")
	if err != nil {
		return err
	}
	out, err := h.useCase.Get(c.UserContext(), user, ids[0], ids[1])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Stage(out))
}

// Replace a stage; sub-stages are kept.
// @Summary Replace funnel stage
// @Tags    funnel
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string        true "candidate id"
// @Param   fid   path string        true "stage id"
// @Param   input body funnel.Fields true "stage"
// @Success 200 {object} StageView
// @Router  /candidates/{cid}/funnel/{fid}/ [put]
func (h *FunnelHandler) Replace(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid")
	if err != nil {
		return err
	}
	var f funnel.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Replace(c.UserContext(), user, ids[0], ids[1], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Stage(out))
}

// Update a stage partially.
// @Summary Update funnel stage
// @Tags    funnel
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string        true "candidate id"
// @Param   fid   path string        true "stage id"
// @Param   input body funnel.Fields true "fields to change"
// @Success 200 {object} StageView
// @Router  /candidates/{cid}/funnel/{fid}/ [patch]
func (h *FunnelHandler) Update(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid")
	if err != nil {
		return err
	}
	var p funnel.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.Update(c.UserContext(), user, ids[0], ids[1], p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Stage(out))
}

// Delete a stage with its sub-stages.
// @Summary Delete funnel stage
// @Tags    funnel
// @Security BearerAuth
// @Param   cid path string true "candidate id"
// @Param   fid path string true "stage id"
// @Success 204
// @Router  /candidates/{cid}/funnel/{fid}/ [delete]
func (h *FunnelHandler) Delete(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid")
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), user, ids[0], ids[1]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSubStages of a stage.
// @Summary List sub-stages
// @Tags    funnel
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Param   fid path string true "stage id"
// @Success 200 {array} SubStageView
// @Router  /candidates/{cid}/funnel/{fid}/substage/ [get]
func (h *FunnelHandler) ListSubStages(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid")
	if err != nil {
		return err
	}
	out, err := h.useCase.ListSubStages(c.UserContext(), user, ids[0], ids[1])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.SubStage))
}

// CreateSubStage adds a sub-stage.
// @Summary Create sub-stage
// @Tags    funnel
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string        true "candidate id"
// @Param   fid   path string        true "stage id"
// @Param   input body funnel.Fields true "sub-stage"
// @Success 201 {object} SubStageView
// @Router  /candidates/{cid}/funnel/{fid}/substage/ [post]
func (h *FunnelHandler) CreateSubStage(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid")
	if err != nil {
		return err
	}
	var f funnel.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.CreateSubStage(c.UserContext(), user, ids[0], ids[1], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.SubStage(out))
}

// @Summary Get sub-stage
// @Tags    funnel
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Param   fid path string true "stage id"
// @Param   id  path string true "sub-stage id"
// @Success 200 {object} SubStageView
// @Router  /candidates/{cid}/funnel/{fid}/substage/{id}/ [get]
func (h *FunnelHandler) GetSubStage(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid", "id")
	if err != nil {
		return err
	}
	out, err := h.useCase.GetSubStage(c.UserContext(), user, ids[0], ids[1], ids[2])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.SubStage(out))
}

// @Summary Replace sub-stage
// @Tags    funnel
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string        true "candidate id"
// @Param   fid   path string        true "stage id"
// @Param   id    path string        true "sub-stage id"
// @Param   input body funnel.Fields true "sub-stage"
// @Success 200 {object} SubStageView
// @Router  /candidates/{cid}/funnel/{fid}/substage/{id}/ [put]
func (h *FunnelHandler) ReplaceSubStage(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid", "id")
	if err != nil {
		return err
	}
	var f funnel.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.ReplaceSubStage(c.UserContext(), user, ids[0], ids[1], ids[2], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.SubStage(out))
}

// @Summary Update sub-stage
// @Tags    funnel
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string        true "candidate id"
// @Param   fid   path string        true "stage id"
// @Param   id    path string        true "sub-stage id"
// @Param   input body funnel.Fields true "fields to change"
// @Success 200 {object} SubStageView
// @Router  /candidates/{cid}/funnel/{fid}/substage/{id}/ [patch]
func (h *FunnelHandler) UpdateSubStage(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid", "id")
	if err != nil {
		return err
	}
	var p funnel.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.UpdateSubStage(c.UserContext(), user, ids[0], ids[1], ids[2], p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.SubStage(out))
}

// @Summary Delete sub-stage
// @Tags    funnel
// @Security BearerAuth
// @Param   cid path string true "candidate id"
// @Param   fid path string true "stage id"
// @Param   id  path string true "sub-stage id"
// @Success 204
// @Router  /candidates/{cid}/funnel/{fid}/substage/{id}/ [delete]
func (h *FunnelHandler) DeleteSubStage(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "fid", "id")
	if err != nil {
		return err
	}
	if err := h.useCase.DeleteSubStage(c.UserContext(), user, ids[0], ids[1], ids[2]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
