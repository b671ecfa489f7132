package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/security/jwt"
)

const maxUpload = 10 << 20

// currentUser reads the id stamped by the auth middleware.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(jwt.LocalUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized("Учетные данные не были предоставлены.")
	}
	return id, nil
}

func currentRole(c *fiber.Ctx) auth.Role {
	role, _ := c.Locals(jwt.LocalRole).(auth.Role)
	return role
}

// pathID parses a uuid route parameter; a malformed id is simply not found.
func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.NotFound("Страница не найдена.")
	}
	return id, nil
}

// pathIDs resolves several route parameters in order.
func pathIDs(c *fiber.Ctx, names ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(names))
	for i, n := range names {
		id, err := pathID(c, n)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// decode reads a JSON body; patch types rely on encoding/json seeing every key.
func decode(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return jsonError(err)
	}
	return nil
}

func jsonError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperr.Validation(typeErr.Field, "Некорректный тип значения.")
	}
	return fiber.NewError(fiber.StatusBadRequest, "Некорректный JSON: "+err.Error())
}

func queryValues(c *fiber.Ctx) url.Values {
	v, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return v
}

// upload reads one multipart file.
func upload(c *fiber.Ctx, field string) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, apperr.Required(field)
	}
	if fh.Size > maxUpload {
		return "", nil, apperr.Validation(field, "Файл слишком большой.")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return fh.Filename, data, nil
}

// scoped returns the caller together with the named path ids.
func scoped(c *fiber.Ctx, names ...string) (uuid.UUID, []uuid.UUID, error) {
	user, err := currentUser(c)
	if err != nil {
		return uuid.Nil, nil, err
	}
	ids, err := pathIDs(c, names...)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return user, ids, nil
}
