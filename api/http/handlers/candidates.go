package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/candidate"
)

// CandidateHandler serves candidates nested under a vacancy.
type CandidateHandler struct {
	useCase candidate.UseCase
	views   *Views
}

func NewCandidateHandler(useCase candidate.UseCase, views *Views) *CandidateHandler {
	return &CandidateHandler{useCase: useCase, views: views}
}

// List candidates of a vacancy.
// @Summary List candidates
// @Tags    candidates
// @Security BearerAuth
// @Produce json
// @Param   vid                 path  string true  "vacancy id"
// @Param   employment_type     query string false "codes"
// @Param   schedule_work       query string false "codes"
// @Param   salary_expectations query string false "min,max"
// @Param   interview_status    query string false "code"
// @Param   candidate_status    query string false "code"
// @Param   search              query string false "name, city, position or resume text"
// @Param   ordering            query string false "interview_status, pub_date, last_name"
// @Success 200 {array} CandidateSummary
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vacancies/{vid}/candidates/ [get]
func (h *CandidateHandler) List(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "vid")
	if err != nil {
		return err
	}
	out, err := h.useCase.List(c.UserContext(), user, ids[0], queryValues(c))
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.CandidateSummary))
}

// Create a candidate in a vacancy.
// @Summary Create candidate
// @Tags    candidates
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   vid        path string          true "vacancy id"
// @Param   input      body candidate.Input true "candidate"
// @Success 201 {object} CandidateDetail
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /vacancies/{vid}/candidates/ [post]
func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "vid")
	if err != nil {
		return err
	}
	var in candidate.Input
	if err := decode(c, &in); err != nil {
		return err
	}
	out, err := h.useCase.Create(c.UserContext(), user, ids[0], in)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.CandidateDetail(out))
}

// Get a candidate.
// @Summary Get candidate
// @Tags    candidates
// @Security BearerAuth
// @Produce json
// @Param   vid        path string true "vacancy id"
// @Param   id         path string true "candidate id"
// @Success 200 {object} CandidateDetail
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vacancies/{vid}/candidates/{id}/ [get]
func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "vid", "id")
	if err != nil {
		return err
	}
	out, err := h.useCase.Get(c.UserContext(), user, ids[0], ids[1])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CandidateDetail(out))
}

// Replace a candidate.
// @Summary Replace candidate
// @Tags    candidates
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   vid        path string          true "vacancy id"
// @Param   id         path string          true "candidate id"
// @Param   input      body candidate.Input true "candidate"
// @Success 200 {object} CandidateDetail
// @Router  /vacancies/{vid}/candidates/{id}/ [put]
func (h *CandidateHandler) Replace(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "vid", "id")
	if err != nil {
		return err
	}
	var in candidate.Input
	if err := decode(c, &in); err != nil {
		return err
	}
	out, err := h.useCase.Replace(c.UserContext(), user, ids[0], ids[1], in)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CandidateDetail(out))
}

// Update a candidate partially; the interview status is checked after merge.
// @Summary Update candidate
// @Tags    candidates
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   vid        path string          true "vacancy id"
// @Param   id         path string          true "candidate id"
// @Param   input      body candidate.Input true "fields to change"
// @Success 200 {object} CandidateDetail
// @Router  /vacancies/{vid}/candidates/{id}/ [patch]
func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "vid", "id")
	if err != nil {
		return err
	}
	var p candidate.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.Update(c.UserContext(), user, ids[0], ids[1], p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CandidateDetail(out))
}

// Delete a candidate.
// @Summary Delete candidate
// @Tags    candidates
// @Security BearerAuth
// @Param   vid        path string true "vacancy id"
// @Param   id         path string true "candidate id"
// @Success 204
// @Router  /vacancies/{vid}/candidates/{id}/ [delete]
func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "vid", "id")
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), user, ids[0], ids[1]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadResume attaches a PDF or DOCX resume.
// @Summary Upload candidate resume
// @Tags    candidates
// @Security BearerAuth
// @Accept  multipart/form-data
// @Produce json
// @Param   vid        path     string true "vacancy id"
// @Param   id         path     string true "candidate id"
// @Param   resume     formData file   true "PDF or DOCX"
// @Success 200 {object} CandidateDetail
// @Router  /vacancies/{vid}/candidates/{id}/resume/ [post]
func (h *CandidateHandler) UploadResume(c *fiber.Ctx) error {
	return h.uploadFile(c, "resume", h.useCase.UploadResume)
}

// UploadPhoto attaches a photo.
// @Summary Upload candidate photo
// @Tags    candidates
// @Security BearerAuth
// @Accept  multipart/form-data
// @Produce json
// @Param   vid        path     string true "vacancy id"
// @Param   id         path     string true "candidate id"
// @Param   photo      formData file   true "image"
// @Success 200 {object} CandidateDetail
// @Router  /vacancies/{vid}/candidates/{id}/photo/ [post]
func (h *CandidateHandler) UploadPhoto(c *fiber.Ctx) error {
	return h.uploadFile(c, "photo", h.useCase.UploadPhoto)
}

type uploadFunc func(ctx context.Context, user, vacancyID, id uuid.UUID, filename string, data []byte) (candidate.Candidate, error)

func (h *CandidateHandler) uploadFile(c *fiber.Ctx, field string, save uploadFunc) error {
	user, ids, err := scoped(c, "vid", "id")
	if err != nil {
		return err
	}
	name, data, err := upload(c, field)
	if err != nil {
		return err
	}
	out, err := save(c.UserContext(), user, ids[0], ids[1], name, data)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.CandidateDetail(out))
}
