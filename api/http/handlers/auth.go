package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/security/jwt"
)

// SessionConfig controls cookies, redirects and the login failure status.
type SessionConfig struct {
	CookieDomain       string
	CookieSecure       bool
	AccessTTL          time.Duration
	LoginFailureStatus int
	FrontendURL        string
}

type AuthHandler struct {
	useCase auth.AuthUseCase
	session SessionConfig
	now     func() time.Time
}

func NewAuthHandler(useCase auth.AuthUseCase, session SessionConfig) *AuthHandler {
	if session.LoginFailureStatus == 0 {
		session.LoginFailureStatus = fiber.StatusUnauthorized
	}
	return &AuthHandler{useCase: useCase, session: session, now: time.Now}
}

// Signup registers a user and sends the confirmation link.
// @Summary Sign up
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body auth.SignupInput true "registration payload"
// @Success 201 {object} presenter.IDResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /signup/ [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in auth.SignupInput
	if err := decode(c, &in); err != nil {
		return err
	}
	user, err := h.useCase.Signup(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusCreated, presenter.IDResponse{ID: user.ID.String()})
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type tokensResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type loginResponse struct {
	ID   string         `json:"id"`
	Data tokensResponse `json:"data"`
}

// Login issues a token pair and sets the session cookies.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /login/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	res, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if ae := apperr.As(err); ae.Kind == apperr.KindUnauthorized {
			return presenter.AppError(c, h.session.LoginFailureStatus, ae)
		}
		return err
	}
	csrf, err := csrfToken()
	if err != nil {
		return apperr.Internal(err)
	}
	var expires time.Time
	if req.RememberMe {
		expires = h.now().Add(h.session.AccessTTL)
	}
	c.Cookie(h.cookie(jwt.AccessCookie, res.Tokens.Access, expires, true))
	c.Cookie(h.cookie(jwt.CSRFCookie, csrf, expires, false))
	return presenter.JSON(c, fiber.StatusOK, loginResponse{
		ID:   res.User.ID.String(),
		Data: tokensResponse{Refresh: res.Tokens.Refresh, Access: res.Tokens.Access},
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type accessResponse struct {
	Access string `json:"access"`
}

// Refresh exchanges a refresh token for a new access token.
// @Summary Refresh access token
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body refreshRequest true "refresh token"
// @Success 200 {object} accessResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /token/refresh/ [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if req.Refresh == "" {
		return apperr.Required("refresh")
	}
	access, err := h.useCase.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return presenter.JSON(c, fiber.StatusOK, accessResponse{Access: access})
}

// Confirm activates the account from the emailed link.
// @Summary Confirm email
// @Tags    auth
// @Param   user_id path string true "user id"
// @Param   code    path string true "confirmation code"
// @Success 302
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /confirm/{user_id}/{code}/ [get]
func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	id, err := pathID(c, "user_id")
	if err != nil {
		return apperr.NotFound("Пользователь не найден.")
	}
	if err := h.useCase.Confirm(c.UserContext(), id, c.Params("code")); err != nil {
		return err
	}
	return c.Redirect(h.loginPage(), fiber.StatusFound)
}

// Logout revokes the current tokens and clears cookies.
// @Summary Logout
// @Tags    auth
// @Security BearerAuth
// @Param   input body refreshRequest false "refresh token to revoke"
// @Success 302
// @Router  /logout/ [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	_ = decode(c, &req)
	jti, _ := c.Locals(jwt.LocalJTI).(string)
	if err := h.useCase.Logout(c.UserContext(), jti, jwt.TokenExp(c), req.Refresh); err != nil {
		return err
	}
	gone := h.now().Add(-time.Hour)
	c.Cookie(h.cookie(jwt.AccessCookie, "", gone, true))
	c.Cookie(h.cookie(jwt.CSRFCookie, "", gone, false))
	return c.Redirect(h.loginPage(), fiber.StatusFound)
}

// ChangePassword replaces the password of the current user.
// @Summary Change password
// @Tags    auth
// @Security BearerAuth
// @Accept  json
// @Param   input body auth.ChangePasswordInput true "passwords"
// @Success 204
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /change-password/ [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var in auth.ChangePasswordInput
	if err := decode(c, &in); err != nil {
		return err
	}
	if err := h.useCase.ChangePassword(c.UserContext(), user, in); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// cookie builds a session cookie; a zero expiry makes it a browser-session cookie.
func (h *AuthHandler) cookie(name, value string, expires time.Time, httpOnly bool) *fiber.Cookie {
	ck := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.session.CookieDomain,
		Secure:   h.session.CookieSecure,
		HTTPOnly: httpOnly,
		SameSite: fiber.CookieSameSiteNoneMode,
	}
	if !expires.IsZero() {
		ck.Expires = expires
	}
	return ck
}

func (h *AuthHandler) loginPage() string { return h.session.FrontendURL + "/login/" }

func csrfToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
