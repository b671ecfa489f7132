package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/api/http/handlers"
	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/health"
	"github.com/artem13815/hr-crm/pkg/security/jwt"
)

func TestRegisterGuardsRoutes(t *testing.T) {
	gen := jwt.NewGenerator("secret", "hr-crm", time.Hour, time.Hour)
	app := fiber.New(fiber.Config{ErrorHandler: presenter.NewErrorHandler(nil)})
	Register(app, Handlers{
		Health: handlers.NewHealthHandler(health.NewService()),
		AuthMW: jwt.NewAuthMiddleware(gen, auth.NewMemoryDenylist(), nil),
	})

	applicant, err := gen.IssueAccess(context.Background(), auth.User{ID: uuid.New(), Role: auth.RoleApplicant})
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"liveness is public", "/api/v1/health", "", http.StatusOK},
		{"readiness is public", "/api/v1/ready", "", http.StatusOK},
		{"vacancies need a token", "/api/v1/vacancies/", "", http.StatusUnauthorized},
		{"candidate data needs a token", "/api/v1/candidates/" + uuid.NewString() + "/notes/", "", http.StatusUnauthorized},
		{"applicants cannot see vacancies", "/api/v1/vacancies/", applicant, http.StatusForbidden},
		{"applicants cannot see funnels", "/api/v1/candidates/" + uuid.NewString() + "/funnel/", applicant, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
