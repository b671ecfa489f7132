package jwt

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/logger"
)

const (
	AccessCookie = "access_token"
	CSRFCookie   = "csrftoken"
	CSRFHeader   = "X-CSRFToken"

	LocalUserID   = "userId"
	LocalRole     = "role"
	LocalJTI      = "jti"
	LocalTokenExp = "tokenExp"
)

// NewAuthMiddleware accepts the access token from "Authorization: Bearer"
// or from the access_token cookie. Cookie sessions must echo the csrftoken
// cookie in X-CSRFToken on unsafe methods.
func NewAuthMiddleware(g *Generator, denylist auth.Denylist, log *zap.Logger) fiber.Handler {
	log = logger.OrNop(log)
	return func(c *fiber.Ctx) error {
		tokenStr, fromCookie := bearer(c.Get(fiber.HeaderAuthorization)), false
		if tokenStr == "" {
			tokenStr, fromCookie = c.Cookies(AccessCookie), true
		}
		if tokenStr == "" {
			return apperr.Unauthorized("Учетные данные не были предоставлены.")
		}
		claims, err := g.Parse(tokenStr, TypeAccess)
		if err != nil {
			return apperr.Unauthorized("Токен недействителен или просрочен.")
		}
		if fromCookie && !safeMethod(c.Method()) {
			header, cookie := c.Get(CSRFHeader), c.Cookies(CSRFCookie)
			if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) != 1 {
				return apperr.Forbidden("CSRF-токен отсутствует или неверен.")
			}
		}
		revoked, err := denylist.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			log.Error("denylist lookup failed", zap.Error(err))
			return apperr.Internal(err)
		}
		if revoked {
			return apperr.Unauthorized("Токен отозван.")
		}
		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalRole, auth.Role(claims.Role))
		c.Locals(LocalJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(LocalTokenExp, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}

// RequireRole lets through only the listed roles.
func RequireRole(roles ...auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(auth.Role)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return apperr.Forbidden("У вас недостаточно прав для выполнения данного действия.")
	}
}

// TokenExp is the access token expiry stored by the middleware.
func TokenExp(c *fiber.Ctx) time.Time {
	exp, _ := c.Locals(LocalTokenExp).(time.Time)
	return exp
}

// Support both "Bearer <token>" and "<token>" (no prefix).
func bearer(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		if !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return header
}

func safeMethod(m string) bool {
	switch m {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions, fiber.MethodTrace:
		return true
	}
	return false
}
