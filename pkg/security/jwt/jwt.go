package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/auth"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrWrongType = errors.New("unexpected token type")

// Generator signs HS256 access/refresh pairs and implements auth.TokenIssuer.
type Generator struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewGenerator(secret, issuer string, accessTTL, refreshTTL time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL is also the cookie lifetime.
func (g *Generator) AccessTTL() time.Duration { return g.accessTTL }

// Claims включает стандартные поля, тип токена и роль.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
	Role string `json:"role"`
}

func (c Claims) UserID() (uuid.UUID, error) { return uuid.Parse(c.Subject) }

func (g *Generator) Issue(ctx context.Context, user auth.User) (auth.TokenPair, error) {
	access, err := g.IssueAccess(ctx, user)
	if err != nil {
		return auth.TokenPair{}, err
	}
	refresh, err := g.sign(user, TypeRefresh, g.refreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	return auth.TokenPair{Access: access, Refresh: refresh}, nil
}

func (g *Generator) IssueAccess(_ context.Context, user auth.User) (string, error) {
	return g.sign(user, TypeAccess, g.accessTTL)
}

func (g *Generator) sign(user auth.User, typ string, ttl time.Duration) (string, error) {
	now := g.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: typ,
		Role: string(user.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Parse checks signature, expiry, issuer and the token type.
func (g *Generator) Parse(tokenStr, typ string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(g.now),
	}
	if g.issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("%w: %q", ErrWrongType, claims.Type)
	}
	return claims, nil
}

func (g *Generator) ParseRefresh(tokenStr string) (auth.RefreshClaims, error) {
	claims, err := g.Parse(tokenStr, TypeRefresh)
	if err != nil {
		return auth.RefreshClaims{}, err
	}
	id, err := claims.UserID()
	if err != nil {
		return auth.RefreshClaims{}, err
	}
	return auth.RefreshClaims{UserID: id, JTI: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}
