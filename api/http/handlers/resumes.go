package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/resume"
)

// ResumeHandler serves applicant resumes. Recruiters read all of them,
// applicants read and edit only their own.
type ResumeHandler struct {
	useCase resume.UseCase
	views   *Views
}

func NewResumeHandler(useCase resume.UseCase, views *Views) *ResumeHandler {
	return &ResumeHandler{useCase: useCase, views: views}
}

func viewer(c *fiber.Ctx) (resume.Viewer, error) {
	id, err := currentUser(c)
	if err != nil {
		return resume.Viewer{}, err
	}
	return resume.Viewer{ID: id, Role: currentRole(c)}, nil
}

// List resumes.
// @Summary List resumes
// @Tags    resumes
// @Security BearerAuth
// @Produce json
// @Param   salary_expectations query string false "min,max"
// @Param   employment_type     query string false "codes"
// @Param   schedule_work       query string false "codes"
// @Param   education           query string false "code"
// @Param   relocation          query string false "code"
// @Param   working_trip        query bool   false "ready for business trips"
// @Param   search              query string false "job title, town or company"
// @Param   ordering            query string false "pub_date, salary_expectations"
// @Success 200 {array} ResumeSummary
// @Router  /resumes/ [get]
func (h *ResumeHandler) List(c *fiber.Ctx) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	out, err := h.useCase.List(c.UserContext(), v, queryValues(c))
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.ResumeSummary))
}

// @Summary Create resume
// @Tags    resumes
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   input body resume.Fields true "resume"
// @Success 201 {object} ResumeDetail
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /resumes/ [post]
func (h *ResumeHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var f resume.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Create(c.UserContext(), user, f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.ResumeDetail(out))
}

// @Summary Get resume
// @Tags    resumes
// @Security BearerAuth
// @Produce json
// @Param   id path string true "resume id"
// @Success 200 {object} ResumeDetail
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/ [get]
func (h *ResumeHandler) Get(c *fiber.Ctx) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.useCase.Get(c.UserContext(), v, id)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.ResumeDetail(out))
}

// @Summary Replace resume
// @Tags    resumes
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   id    path string        true "resume id"
// @Param   input body resume.Fields true "resume"
// @Success 200 {object} ResumeDetail
// @Router  /resumes/{id}/ [put]
func (h *ResumeHandler) Replace(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var f resume.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.Replace(c.UserContext(), user, ids[0], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.ResumeDetail(out))
}

// @Summary Update resume
// @Tags    resumes
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   id    path string        true "resume id"
// @Param   input body resume.Fields true "fields to change"
// @Success 200 {object} ResumeDetail
// @Router  /resumes/{id}/ [patch]
func (h *ResumeHandler) Update(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var p resume.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.Update(c.UserContext(), user, ids[0], p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.ResumeDetail(out))
}

// @Summary Delete resume
// @Tags    resumes
// @Security BearerAuth
// @Param   id path string true "resume id"
// @Success 204
// @Router  /resumes/{id}/ [delete]
func (h *ResumeHandler) Delete(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), user, ids[0]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
