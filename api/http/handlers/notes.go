package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/note"
)

// NoteHandler serves notes about a candidate and comments under them.
type NoteHandler struct {
	useCase note.UseCase
	views   *Views
}

func NewNoteHandler(useCase note.UseCase, views *Views) *NoteHandler {
	return &NoteHandler{useCase: useCase, views: views}
}

// List notes, newest first.
// @Summary List notes
// @Tags    notes
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Success 200 {array} NoteView
// @Router  /candidates/{cid}/notes/ [get]
func (h *NoteHandler) List(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid")
	if err != nil {
		return err
	}
	out, err := h.useCase.ListNotes(c.UserContext(), user, ids[0])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.Note))
}

// @Summary Create note
// @Tags    notes
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string      true "candidate id"
// @Param   input body note.Fields true "note"
// @Success 201 {object} NoteView
// @Router  /candidates/{cid}/notes/ [post]
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid")
	if err != nil {
		return err
	}
	var f note.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.CreateNote(c.UserContext(), user, ids[0], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.Note(out))
}

// @Summary Get note
// @Tags    notes
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Param   nid path string true "note id"
// @Success 200 {object} NoteView
// @Router  /candidates/{cid}/notes/{nid}/ [get]
func (h *NoteHandler) Get(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid")
	if err != nil {
		return err
	}
	out, err := h.useCase.GetNote(c.UserContext(), user, ids[0], ids[1])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Note(out))
}

// Update edits the text; PUT and PATCH behave the same since text is the only field.
// @Summary Update note
// @Tags    notes
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string      true "candidate id"
// @Param   nid   path string      true "note id"
// @Param   input body note.Fields true "note"
// @Success 200 {object} NoteView
// @Router  /candidates/{cid}/notes/{nid}/ [patch]
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid")
	if err != nil {
		return err
	}
	var p note.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.UpdateNote(c.UserContext(), user, ids[0], ids[1], p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Note(out))
}

// @Summary Delete note
// @Tags    notes
// @Security BearerAuth
// @Param   cid path string true "candidate id"
// @Param   nid path string true "note id"
// @Success 204
// @Router  /candidates/{cid}/notes/{nid}/ [delete]
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid")
	if err != nil {
		return err
	}
	if err := h.useCase.DeleteNote(c.UserContext(), user, ids[0], ids[1]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListComments of a note, newest first.
// @Summary List comments
// @Tags    notes
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Param   nid path string true "note id"
// @Success 200 {array} CommentView
// @Router  /candidates/{cid}/notes/{nid}/comments/ [get]
func (h *NoteHandler) ListComments(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid")
	if err != nil {
		return err
	}
	out, err := h.useCase.ListComments(c.UserContext(), user, ids[0], ids[1])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, mapSlice(out, h.views.Comment))
}

// @Summary Create comment
// @Tags    notes
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string      true "candidate id"
// @Param   nid   path string      true "note id"
// @Param   input body note.Fields true "comment"
// @Success 201 {object} CommentView
// @Router  /candidates/{cid}/notes/{nid}/comments/ [post]
func (h *NoteHandler) CreateComment(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid")
	if err != nil {
		return err
	}
	var f note.Fields
	if err := decode(c, &f); err != nil {
		return err
	}
	out, err := h.useCase.CreateComment(c.UserContext(), user, ids[0], ids[1], f)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, h.views.Comment(out))
}

// @Summary Get comment
// @Tags    notes
// @Security BearerAuth
// @Produce json
// @Param   cid path string true "candidate id"
// @Param   nid path string true "note id"
// @Param   id  path string true "comment id"
// @Success 200 {object} CommentView
// @Router  /candidates/{cid}/notes/{nid}/comments/{id}/ [get]
func (h *NoteHandler) GetComment(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid", "id")
	if err != nil {
		return err
	}
	out, err := h.useCase.GetComment(c.UserContext(), user, ids[0], ids[1], ids[2])
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Comment(out))
}

// @Summary Update comment
// @Tags    notes
// @Security BearerAuth
// @Accept  json
// @Produce json
// @Param   cid   path string      true "candidate id"
// @Param   nid   path string      true "note id"
// @Param   id    path string      true "comment id"
// @Param   input body note.Fields true "comment"
// @Success 200 {object} CommentView
// @Router  /candidates/{cid}/notes/{nid}/comments/{id}/ [patch]
func (h *NoteHandler) UpdateComment(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid", "id")
	if err != nil {
		return err
	}
	var p note.Patch
	if err := decode(c, &p); err != nil {
		return err
	}
	out, err := h.useCase.UpdateComment(c.UserContext(), user, ids[0], ids[1], ids[2], p)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, h.views.Comment(out))
}

// @Summary Delete comment
// @Tags    notes
// @Security BearerAuth
// @Param   cid path string true "candidate id"
// @Param   nid path string true "note id"
// @Param   id  path string true "comment id"
// @Success 204
// @Router  /candidates/{cid}/notes/{nid}/comments/{id}/ [delete]
func (h *NoteHandler) DeleteComment(c *fiber.Ctx) error {
	user, ids, err := scoped(c, "cid", "nid", "id")
	if err != nil {
		return err
	}
	if err := h.useCase.DeleteComment(c.UserContext(), user, ids[0], ids[1], ids[2]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
