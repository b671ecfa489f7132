package presenter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/pkg/apperr"
)

func render(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(nil)})
	app.Get("/", func(*fiber.Ctx) error { return err })

	resp, rerr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, rerr)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorBodyAlwaysCarriesFieldName(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		field  any
	}{
		{"not found", apperr.NotFound("nope"), http.StatusNotFound, "not_found", nil},
		{"unauthorized", apperr.Unauthorized("who"), http.StatusUnauthorized, "not_authenticated", nil},
		{"framework", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed", nil},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "error", nil},
		{"field", apperr.Validation("email", "bad"), http.StatusBadRequest, "invalid", "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := render(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
			assert.Equal(t, false, body["success"])
			require.Contains(t, body, "field_name")
			assert.Equal(t, tc.field, body["field_name"])
			assert.Contains(t, body, "type")
			assert.Contains(t, body, "message")
		})
	}
}

func TestAppErrorKeepsCodeUnderCustomStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return AppError(c, http.StatusNotFound, apperr.Unauthorized("Неверный email или пароль."))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_authenticated", out.Code)
	assert.Equal(t, "client_error", out.Type)
	assert.Nil(t, out.FieldName)
}
