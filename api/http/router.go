package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/handlers"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/security/jwt"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Users      *handlers.UserHandler
	Companies  *handlers.CompanyHandler
	Vacancies  *handlers.VacancyHandler
	Candidates *handlers.CandidateHandler
	Funnel     *handlers.FunnelHandler
	Notes      *handlers.NoteHandler
	Events     *handlers.EventHandler
	Resumes    *handlers.ResumeHandler

	// AuthMW validates the access token; Throttle guards signup and login.
	AuthMW   fiber.Handler
	Throttle fiber.Handler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	throttle := h.Throttle
	if throttle == nil {
		throttle = func(c *fiber.Ctx) error { return c.Next() }
	}
	v1.Post("/signup/", throttle, h.Auth.Signup)
	v1.Post("/login/", throttle, h.Auth.Login)
	v1.Post("/token/refresh/", h.Auth.Refresh)
	v1.Get("/confirm/:user_id/:code/", h.Auth.Confirm)

	authMW := h.AuthMW
	hr := jwt.RequireRole(auth.RoleHR)

	v1.Post("/logout/", authMW, h.Auth.Logout)
	v1.Put("/change-password/", authMW, h.Auth.ChangePassword)

	users := v1.Group("/users", authMW)
	users.Get("/", h.Users.List)
	users.Get("/me/", h.Users.Me)
	users.Get("/:id/", h.Users.Get)

	companies := v1.Group("/companies", authMW)
	companies.Get("/", h.Companies.List)
	companies.Get("/:id/", h.Companies.Get)
	companies.Post("/", hr, h.Companies.Create)
	companies.Put("/:id/", hr, h.Companies.Replace)
	companies.Patch("/:id/", hr, h.Companies.Update)
	companies.Post("/:id/logo/", hr, h.Companies.UploadLogo)
	companies.Delete("/:id/", hr, h.Companies.Delete)

	vacancies := v1.Group("/vacancies", authMW, hr)
	vacancies.Get("/", h.Vacancies.List)
	vacancies.Post("/", h.Vacancies.Create)
	vacancies.Get("/:id/", h.Vacancies.Get)
	vacancies.Put("/:id/", h.Vacancies.Replace)
	vacancies.Patch("/:id/", h.Vacancies.Update)
	vacancies.Delete("/:id/", h.Vacancies.Delete)

	cands := vacancies.Group("/:vid/candidates")
	cands.Get("/", h.Candidates.List)
	cands.Post("/", h.Candidates.Create)
	cands.Get("/:id/", h.Candidates.Get)
	cands.Put("/:id/", h.Candidates.Replace)
	cands.Patch("/:id/", h.Candidates.Update)
	cands.Delete("/:id/", h.Candidates.Delete)
	cands.Post("/:id/resume/", h.Candidates.UploadResume)
	cands.Post("/:id/photo/", h.Candidates.UploadPhoto)

	cand := v1.Group("/candidates/:cid", authMW, hr)

	fn := cand.Group("/funnel")
	fn.Get("/", h.Funnel.List)
	fn.Post("/", h.Funnel.Create)
	fn.Get("/:fid/", h.Funnel.Get)
	fn.Put("/:fid/", h.Funnel.Replace)
	fn.Patch("/:fid/", h.Funnel.Update)
	fn.Delete("/:fid/", h.Funnel.Delete)
	sub := fn.Group("/:fid/substage")
	sub.Get("/", h.Funnel.ListSubStages)
	sub.Post("/", h.Funnel.CreateSubStage)
	sub.Get("/:id/", h.Funnel.GetSubStage)
	sub.Put("/:id/", h.Funnel.ReplaceSubStage)
	sub.Patch("/:id/", h.Funnel.UpdateSubStage)
	sub.Delete("/:id/", h.Funnel.DeleteSubStage)

	notes := cand.Group("/notes")
	notes.Get("/", h.Notes.List)
	notes.Post("/", h.Notes.Create)
	notes.Get("/:nid/", h.Notes.Get)
	notes.Put("/:nid/", h.Notes.Update)
	notes.Patch("/:nid/", h.Notes.Update)
	notes.Delete("/:nid/", h.Notes.Delete)
	comments := notes.Group("/:nid/comments")
	comments.Get("/", h.Notes.ListComments)
	comments.Post("/", h.Notes.CreateComment)
	comments.Get("/:id/", h.Notes.GetComment)
	comments.Put("/:id/", h.Notes.UpdateComment)
	comments.Patch("/:id/", h.Notes.UpdateComment)
	comments.Delete("/:id/", h.Notes.DeleteComment)

	events := cand.Group("/events")
	events.Get("/", h.Events.List)
	events.Post("/", h.Events.Create)
	events.Get("/:id/", h.Events.Get)
	events.Put("/:id/", h.Events.Replace)
	events.Patch("/:id/", h.Events.Update)
	events.Delete("/:id/", h.Events.Delete)

	resumes := v1.Group("/resumes", authMW)
	resumes.Get("/", h.Resumes.List)
	resumes.Post("/", h.Resumes.Create)
	resumes.Get("/:id/", h.Resumes.Get)
	resumes.Put("/:id/", h.Resumes.Replace)
	resumes.Patch("/:id/", h.Resumes.Update)
	resumes.Delete("/:id/", h.Resumes.Delete)
}
