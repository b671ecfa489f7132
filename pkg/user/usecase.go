package user

import (
	"context"
	"errors"
	"net/url"

	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/filter"
)

// Repository is the read side of the user store.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (auth.User, error)
	List(ctx context.Context, q *filter.Query) ([]auth.User, error)
}

// UseCase exposes users read-only.
type UseCase interface {
	Get(ctx context.Context, id uuid.UUID) (auth.User, error)
	List(ctx context.Context, params url.Values) ([]auth.User, error)
}

var Filters = filter.Spec{
	Fields: []filter.Field{
		{Param: "role", Column: "u.role", Kind: filter.Exact},
	},
	Search:       []string{"u.email", "u.first_name", "u.last_name"},
	Ordering:     map[string]string{"email": "u.email", "created_at": "u.created_at", "last_name": "u.last_name"},
	DefaultOrder: []string{"created_at"},
	TieBreak:     "u.seq",
}

type service struct {
	repo Repository
	reg  *choices.Registry
}

func NewService(repo Repository, reg *choices.Registry) UseCase {
	return &service{repo: repo, reg: reg}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (auth.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return auth.User{}, apperr.NotFound("Пользователь не найден.")
		}
		return auth.User{}, apperr.Internal(err)
	}
	return u, nil
}

func (s *service) List(ctx context.Context, params url.Values) ([]auth.User, error) {
	q, err := filter.Parse(Filters, s.reg, params)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}
