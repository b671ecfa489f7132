package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TokenPair struct {
	Access  string
	Refresh string
}

type RefreshClaims struct {
	UserID    uuid.UUID
	JTI       string
	ExpiresAt time.Time
}

// TokenIssuer abstracts token creation (e.g., JWT).
type TokenIssuer interface {
	Issue(ctx context.Context, user User) (TokenPair, error)
	IssueAccess(ctx context.Context, user User) (string, error)
	ParseRefresh(token string) (RefreshClaims, error)
}

// Denylist remembers revoked token ids until they expire.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Notifier delivers the one-time confirmation link.
type Notifier interface {
	SendConfirmation(ctx context.Context, email, link string) error
}
