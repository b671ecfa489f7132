package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/validate"
)

type fakeRepo struct {
	users map[uuid.UUID]User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: map[uuid.UUID]User{}} }

func (r *fakeRepo) Create(_ context.Context, u User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrUserAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) Confirm(_ context.Context, id uuid.UUID) error {
	u := r.users[id]
	u.IsConfirmed = true
	u.ConfirmationCode = ""
	r.users[id] = u
	return nil
}

func (r *fakeRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u := r.users[id]
	u.PasswordHash = hash
	r.users[id] = u
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(_ context.Context, u User) (TokenPair, error) {
	return TokenPair{Access: "access-" + u.ID.String(), Refresh: "refresh-" + u.ID.String()}, nil
}

func (fakeTokens) IssueAccess(_ context.Context, u User) (string, error) {
	return "access-" + u.ID.String(), nil
}

func (fakeTokens) ParseRefresh(token string) (RefreshClaims, error) {
	id, err := uuid.Parse(strings.TrimPrefix(token, "refresh-"))
	if err != nil {
		return RefreshClaims{}, err
	}
	return RefreshClaims{UserID: id, JTI: "jti-" + id.String(), ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type fakeDenylist struct{ revoked map[string]time.Time }

func (d *fakeDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.revoked[jti] = until
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := d.revoked[jti]
	return ok, nil
}

type fakeNotifier struct {
	err   error
	links []string
}

func (n *fakeNotifier) SendConfirmation(_ context.Context, _ string, link string) error {
	if n.err != nil {
		return n.err
	}
	n.links = append(n.links, link)
	return nil
}

type fixture struct {
	svc      AuthUseCase
	repo     *fakeRepo
	notifier *fakeNotifier
	denylist *fakeDenylist
}

func newFixture() fixture {
	f := fixture{repo: newFakeRepo(), notifier: &fakeNotifier{}, denylist: &fakeDenylist{revoked: map[string]time.Time{}}}
	f.svc = NewAuthService(Deps{
		Repo:      f.repo,
		Tokens:    fakeTokens{},
		Denylist:  f.denylist,
		Notifier:  f.notifier,
		Validator: validate.New(choices.Default(), 14, 100),
		Link: func(id uuid.UUID, code string) string {
			return "http://test/confirm/" + id.String() + "/" + code + "/"
		},
	})
	return f
}

func TestSignupCreatesUserAndSendsLink(t *testing.T) {
	f := newFixture()
	u, err := f.svc.Signup(context.Background(), SignupInput{Email: " Ivan@Example.com ", Password: "Secr3t!pass", Role: RoleHR})
	require.NoError(t, err)

	assert.Equal(t, "ivan@example.com", u.Email)
	assert.Equal(t, RoleHR, u.Role)
	assert.False(t, u.IsConfirmed)
	require.Len(t, f.notifier.links, 1)
	assert.Contains(t, f.notifier.links[0], u.ID.String()+"/"+u.ConfirmationCode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(f.repo.users[u.ID].PasswordHash), []byte("Secr3t!pass")))
}

func TestSignupDefaultsToApplicant(t *testing.T) {
	f := newFixture()
	u, err := f.svc.Signup(context.Background(), SignupInput{Email: "a@b.cd", Password: "Secr3t!pass"})
	require.NoError(t, err)
	assert.Equal(t, RoleApplicant, u.Role)
}

func TestSignupDuplicateEmailNamesIt(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Signup(context.Background(), SignupInput{Email: "dup@example.com", Password: "Secr3t!pass"})
	require.NoError(t, err)

	_, err = f.svc.Signup(context.Background(), SignupInput{Email: "dup@example.com", Password: "Secr3t!pass"})
	require.Error(t, err)
	ae := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, ae.Kind)
	assert.Equal(t, "email", ae.Field)
	assert.Contains(t, ae.Message, "dup@example.com")
}

func TestSignupValidation(t *testing.T) {
	f := newFixture()
	cases := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"bad email", SignupInput{Email: "not-an-email", Password: "Secr3t!pass"}, "email"},
		{"short password", SignupInput{Email: "a@b.cd", Password: "short"}, "password"},
		{"cyrillic password", SignupInput{Email: "a@b.cd", Password: "пароль123456"}, "password"},
		{"unknown role", SignupInput{Email: "a@b.cd", Password: "Secr3t!pass", Role: "boss"}, "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Signup(context.Background(), tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.field, apperr.As(err).Field)
		})
	}
	assert.Empty(t, f.repo.users)
}

func TestSignupMailFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")

	_, err := f.svc.Signup(context.Background(), SignupInput{Email: "a@b.cd", Password: "Secr3t!pass"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.As(err).Kind)
	assert.Empty(t, f.repo.users)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	u, err := f.svc.Signup(context.Background(), SignupInput{Email: "a@b.cd", Password: "Secr3t!pass"})
	require.NoError(t, err)

	res, err := f.svc.Login(context.Background(), "A@B.CD", "Secr3t!pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, "access-"+u.ID.String(), res.Tokens.Access)

	_, err = f.svc.Login(context.Background(), "a@b.cd", "wrong-password")
	assert.Same(t, ErrInvalidCredentials, err)

	_, err = f.svc.Login(context.Background(), "nobody@b.cd", "Secr3t!pass")
	assert.Same(t, ErrInvalidCredentials, err)
}

func TestConfirm(t *testing.T) {
	f := newFixture()
	u, err := f.svc.Signup(context.Background(), SignupInput{Email: "a@b.cd", Password: "Secr3t!pass"})
	require.NoError(t, err)

	err = f.svc.Confirm(context.Background(), u.ID, "wrong")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, f.svc.Confirm(context.Background(), u.ID, u.ConfirmationCode))
	assert.True(t, f.repo.users[u.ID].IsConfirmed)

	// one-time: the code cannot be replayed
	err = f.svc.Confirm(context.Background(), u.ID, u.ConfirmationCode)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = f.svc.Confirm(context.Background(), uuid.New(), "x")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestChangePassword(t *testing.T) {
	f := newFixture()
	u, err := f.svc.Signup(context.Background(), SignupInput{Email: "a@b.cd", Password: "Secr3t!pass"})
	require.NoError(t, err)

	err = f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{OldPassword: "nope", NewPassword1: "N3w!password", NewPassword2: "N3w!password"})
	assert.Equal(t, "old_password", apperr.As(err).Field)

	err = f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{OldPassword: "Secr3t!pass", NewPassword1: "N3w!password", NewPassword2: "other!password"})
	assert.Equal(t, "new_password_2", apperr.As(err).Field)

	require.NoError(t, f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{OldPassword: "Secr3t!pass", NewPassword1: "N3w!password", NewPassword2: "N3w!password"}))
	_, err = f.svc.Login(context.Background(), "a@b.cd", "N3w!password")
	require.NoError(t, err)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newFixture()
	u, err := f.svc.Signup(context.Background(), SignupInput{Email: "a@b.cd", Password: "Secr3t!pass"})
	require.NoError(t, err)
	res, err := f.svc.Login(context.Background(), "a@b.cd", "Secr3t!pass")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), "access-jti", time.Now().Add(time.Hour), res.Tokens.Refresh))
	assert.Contains(t, f.denylist.revoked, "access-jti")
	assert.Contains(t, f.denylist.revoked, "jti-"+u.ID.String())

	_, err = f.svc.Refresh(context.Background(), res.Tokens.Refresh)
	assert.Same(t, ErrTokenRevoked, err)
}

func TestRefreshIssuesAccess(t *testing.T) {
	f := newFixture()
	u, err := f.svc.Signup(context.Background(), SignupInput{Email: "a@b.cd", Password: "Secr3t!pass"})
	require.NoError(t, err)

	access, err := f.svc.Refresh(context.Background(), "refresh-"+u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "access-"+u.ID.String(), access)

	_, err = f.svc.Refresh(context.Background(), "garbage")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
