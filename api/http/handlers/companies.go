package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/company"
)

type CompanyHandler struct {
	useCase company.UseCase
	views   *Views
}

func NewCompanyHandler(useCase company.UseCase, views *Views) *CompanyHandler {
	return &CompanyHandler{useCase: useCase, views: views}
}

// List companies.
// @Summary List companies
// @Tags    companies
// @Security BearerAuth
// @Produce json
// @Param   search          query string false "title or address"
// @Param   company_address query string false "exact address"
// @Success 200 {array} CompanySummary
// @Router  /companies/ [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	out, err := h.useCase.List(c.UserContext(), queryValues(c))
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.CompanySummary))
}

// Create a company.
// @Summary Create company
// @Tags    companies
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   input body company.Fields true "company"
// @Success 201 {object} CompanyDetail
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /companies/ [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var f company.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Create(c.UserContext(), f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.CompanyDetail(out))
}

// Get a company.
// @Summary Get company
// @Tags    companies
// @Security BearerAuth
// @Produce json
// @Param   id path string true "company id"
// @Success 200 {object} CompanyDetail
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /companies/{id}/ [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.useCase.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CompanyDetail(out))
}

// Replace a company.
// @Summary Replace company
// @Tags    companies
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   id    path string         true "company id"
// @Param   input body company.Fields true "company"
// @Success 200 {object} CompanyDetail
// @Router  /companies/{id}/ [put]
func (h *CompanyHandler) Replace(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var f company.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Replace(c.UserContext(), id, f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CompanyDetail(out))
}

// Update a company partially.
// @Summary Update company
// @Tags    companies
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   id    path string         true "company id"
// @Param   input body company.Fields true "fields to change"
// @Success 200 {object} CompanyDetail
// @Router  /companies/{id}/ [patch]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var p company.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.Update(c.UserContext(), id, p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CompanyDetail(out))
}

// UploadLogo stores the company logo.
// @Summary Upload company logo
// @Tags    companies
// @Security BearerAuth
// @Accept  multipart/form-data
// @Produce json
// @Param   id   path     string true "company id"
// @Param   logo formData file   true "image"
// @Success 200 {object} CompanyDetail
// @Router  /companies/{id}/logo/ [post]
func (h *CompanyHandler) UploadLogo(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	name, data, err := upload(c, "logo")
	if err != nil {
		return err
	}
	out, err := h.useCase.UploadLogo(c.UserContext(), id, name, data)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CompanyDetail(out))
}

// Delete a company with its vacancies.
// @Summary Delete company
// @Tags    companies
// @Security BearerAuth
// @Param   id path string true "company id"
// @Success 204
// @Router  /companies/{id}/ [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
