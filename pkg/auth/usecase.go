package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/logger"
	"github.com/artem13815/hr-crm/pkg/validate"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("Неверный email или пароль.")
	ErrTokenRevoked       = apperr.Unauthorized("Токен отозван.")
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Signup(ctx context.Context, in SignupInput) (User, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Refresh(ctx context.Context, refresh string) (string, error)
	Confirm(ctx context.Context, userID uuid.UUID, code string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error
	Logout(ctx context.Context, accessJTI string, accessExp time.Time, refresh string) error
}

type AuthResult struct {
	User   User
	Tokens TokenPair
}

// LinkBuilder renders the confirmation URL for a user and code.
type LinkBuilder func(userID uuid.UUID, code string) string

type authService struct {
	repo     UserRepository
	tokens   TokenIssuer
	denylist Denylist
	notifier Notifier
	validate *validate.Validator
	link     LinkBuilder
	log      *zap.Logger
}

type Deps struct {
	Repo      UserRepository
	Tokens    TokenIssuer
	Denylist  Denylist
	Notifier  Notifier
	Validator *validate.Validator
	Link      LinkBuilder
	Logger    *zap.Logger
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(d Deps) AuthUseCase {
	return &authService{
		repo:     d.Repo,
		tokens:   d.Tokens,
		denylist: d.Denylist,
		notifier: d.Notifier,
		validate: d.Validator,
		link:     d.Link,
		log:      logger.OrNop(d.Logger),
	}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Role == "" {
		in.Role = RoleApplicant
	}
	if err := s.validate.Struct(in); err != nil {
		return User{}, err
	}
	if !in.Role.Valid() {
		return User{}, apperr.Validation("role", fmt.Sprintf("Роль %q не поддерживается.", in.Role))
	}
	if err := validate.Password("password", in.Password); err != nil {
		return User{}, err
	}

	// If user exists, fail fast (best-effort check)
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return User{}, duplicateEmail(in.Email)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, apperr.Internal(err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperr.Internal(err)
	}

	user := User{
		ID:               uuid.New(),
		Email:            in.Email,
		PasswordHash:     string(passwordHash),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Role:             in.Role,
		ConfirmationCode: uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return User{}, duplicateEmail(in.Email)
		}
		return User{}, apperr.Internal(err)
	}

	if err := s.notifier.SendConfirmation(ctx, user.Email, s.link(user.ID, user.ConfirmationCode)); err != nil {
		// mail delivery failed: do not leave an account nobody can confirm
		if derr := s.repo.Delete(ctx, user.ID); derr != nil {
			s.log.Error("rollback signup", zap.String("user_id", user.ID.String()), zap.Error(derr))
		}
		return User{}, apperr.Internal(fmt.Errorf("send confirmation: %w", err))
	}
	s.log.Info("user signed up", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}
	return AuthResult{User: user, Tokens: pair}, nil
}

func (s *authService) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refresh)
	if err != nil {
		return "", apperr.Unauthorized("Недействительный refresh-токен.")
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if revoked {
		return "", ErrTokenRevoked
	}
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", apperr.Unauthorized("Пользователь не найден.")
		}
		return "", apperr.Internal(err)
	}
	access, err := s.tokens.IssueAccess(ctx, user)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return access, nil
}

func (s *authService) Confirm(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Пользователь не найден.")
		}
		return apperr.Internal(err)
	}
	if user.ConfirmationCode == "" || code != user.ConfirmationCode {
		return apperr.Validation("confirmation_code", "Неверный код подтверждения.")
	}
	if err := s.repo.Confirm(ctx, userID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Пользователь не найден.")
		}
		return apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)) != nil {
		return apperr.Validation("old_password", "Старый пароль введен неверно.")
	}
	if in.NewPassword1 != in.NewPassword2 {
		return apperr.Validation("new_password_2", "Пароли не совпадают.")
	}
	if err := validate.Password("new_password_1", in.NewPassword1); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword1), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *authService) Logout(ctx context.Context, accessJTI string, accessExp time.Time, refresh string) error {
	if accessJTI != "" {
		if err := s.denylist.Revoke(ctx, accessJTI, accessExp); err != nil {
			return apperr.Internal(err)
		}
	}
	if refresh == "" {
		return nil
	}
	claims, err := s.tokens.ParseRefresh(refresh)
	if err != nil {
		// already unusable
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func duplicateEmail(email string) error {
	return apperr.Conflict("email", fmt.Sprintf("Пользователь с email %s уже существует.", email))
}
