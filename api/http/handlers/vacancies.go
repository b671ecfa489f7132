package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/vacancy"
)

// VacancyHandler works on the caller's own vacancies.
type VacancyHandler struct {
	useCase vacancy.UseCase
	views   *Views
}

func NewVacancyHandler(useCase vacancy.UseCase, views *Views) *VacancyHandler {
	return &VacancyHandler{useCase: useCase, views: views}
}

// List vacancies of the current recruiter.
// @Summary List vacancies
// @Tags    vacancies
// @Security BearerAuth
// @Produce json
// @Param   employment_type     query string false "codes, comma separated"
// @Param   schedule_work       query string false "codes, comma separated"
// @Param   salary_range        query string false "min,max"
// @Param   vacancy_status      query string false "code"
// @Param   required_experience query string false "code"
// @Param   education           query string false "code"
// @Param   company             query string false "company id"
// @Param   city                query string false "city"
// @Param   search              query string false "title, company, city or skill"
// @Param   ordering            query string false "vacancy_status, deadline, pub_date; prefix - for desc"
// @Param   limit               query int    false "page size"
// @Param   offset              query int    false "offset"
// @Success 200 {array} VacancySummary
// @Router  /vacancies/ [get]
func (h *VacancyHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	out, err := h.useCase.List(c.UserContext(), user, queryValues(c))
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.VacancySummary))
}

// Create a vacancy authored by the caller.
// @Summary Create vacancy
// @Tags    vacancies
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   input body vacancy.Fields true "vacancy"
// @Success 201 {object} VacancyDetail
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /vacancies/ [post]
func (h *VacancyHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var f vacancy.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Create(c.UserContext(), user, f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.VacancyDetail(out))
}

// Get a vacancy.
// @Summary Get vacancy
// @Tags    vacancies
// @Security BearerAuth
// @Produce json
// @Param   id path string true "vacancy id"
// @Success 200 {object} VacancyDetail
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vacancies/{id}/ [get]
func (h *VacancyHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.useCase.Get(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.VacancyDetail(out))
}

// Replace a vacancy.
// @Summary Replace vacancy
// @Tags    vacancies
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   id    path string         true "vacancy id"
// @Param   input body vacancy.Fields true "vacancy"
// @Success 200 {object} VacancyDetail
// @Router  /vacancies/{id}/ [put]
func (h *VacancyHandler) Replace(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var f vacancy.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Replace(c.UserContext(), user, id, f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.VacancyDetail(out))
}

// Update a vacancy partially.
// @Summary Update vacancy
// @Tags    vacancies
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   id    path string         true "vacancy id"
// @Param   input body vacancy.Fields true "fields to change"
// @Success 200 {object} VacancyDetail
// @Router  /vacancies/{id}/ [patch]
func (h *VacancyHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var p vacancy.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.Update(c.UserContext(), user, id, p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.VacancyDetail(out))
}

// Delete a vacancy with its candidates.
// @Summary Delete vacancy
// @Tags    vacancies
// @Security BearerAuth
// @Param   id path string true "vacancy id"
// @Success 204
// @Router  /vacancies/{id}/ [delete]
func (h *VacancyHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), user, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
