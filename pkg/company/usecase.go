package company

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/logger"
	"github.com/artem13815/hr-crm/pkg/storage/files"
	"github.com/artem13815/hr-crm/pkg/validate"
)

var ErrNotFound = errors.New("company not found")

const maxLogoSize = 5 << 20

type Repository interface {
	Create(ctx context.Context, c Company) error
	Get(ctx context.Context, id uuid.UUID) (Company, error)
	List(ctx context.Context, q *filter.Query) ([]Company, error)
	Update(ctx context.Context, c Company) error
	SetLogo(ctx context.Context, id uuid.UUID, logo string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UseCase manages companies; they are shared by all recruiters.
type UseCase interface {
	Create(ctx context.Context, f Fields) (Company, error)
	Get(ctx context.Context, id uuid.UUID) (Company, error)
	List(ctx context.Context, params url.Values) ([]Company, error)
	Replace(ctx context.Context, id uuid.UUID, f Fields) (Company, error)
	Update(ctx context.Context, id uuid.UUID, p Patch) (Company, error)
	UploadLogo(ctx context.Context, id uuid.UUID, filename string, data []byte) (Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var Filters = filter.Spec{
	Fields: []filter.Field{
		{Param: "company_address", Column: "c.company_address", Kind: filter.Exact},
	},
	Search:       []string{"c.company_title", "c.company_address"},
	Ordering:     map[string]string{"company_title": "c.company_title", "company_address": "c.company_address"},
	DefaultOrder: []string{"company_title"},
	TieBreak:     "c.seq",
}

type service struct {
	repo     Repository
	files    files.Store
	validate *validate.Validator
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, store files.Store, v *validate.Validator, log *zap.Logger) UseCase {
	return &service{repo: repo, files: store, validate: v, log: logger.OrNop(log), now: time.Now}
}

func (s *service) Create(ctx context.Context, f Fields) (Company, error) {
	f = normalize(f)
	if err := s.validate.Struct(f); err != nil {
		return Company{}, err
	}
	c := Company{ID: uuid.New(), Fields: f, CreatedAt: s.now().UTC()}
	if err := s.repo.Create(ctx, c); err != nil {
		return Company{}, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Company, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, mapErr(err)
	}
	return c, nil
}

func (s *service) List(ctx context.Context, params url.Values) ([]Company, error) {
	q, err := filter.Parse(Filters, s.validate.Registry(), params)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Replace(ctx context.Context, id uuid.UUID, f Fields) (Company, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, mapErr(err)
	}
	c.Fields = normalize(f)
	return s.save(ctx, c)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, p Patch) (Company, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, mapErr(err)
	}
	p.Apply(&c.Fields)
	c.Fields = normalize(c.Fields)
	return s.save(ctx, c)
}

func (s *service) save(ctx context.Context, c Company) (Company, error) {
	if err := s.validate.Struct(c.Fields); err != nil {
		return Company{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return Company{}, mapErr(err)
	}
	return c, nil
}

// UploadLogo stores an image under images/company_logos/{id}/ and points the company at it.
func (s *service) UploadLogo(ctx context.Context, id uuid.UUID, filename string, data []byte) (Company, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, mapErr(err)
	}
	if len(data) == 0 {
		return Company{}, apperr.Required("logo")
	}
	if len(data) > maxLogoSize {
		return Company{}, apperr.Validation("logo", "Размер файла не должен превышать 5 МБ.")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return Company{}, apperr.Validation("logo", "Загрузите корректное изображение.")
	}
	key := files.LogoKey(id, filename, s.now().UTC())
	logoURL, err := s.files.Save(ctx, key, contentType, data)
	if err != nil {
		return Company{}, apperr.Internal(fmt.Errorf("store logo: %w", err))
	}
	if err := s.repo.SetLogo(ctx, id, logoURL); err != nil {
		return Company{}, mapErr(err)
	}
	s.log.Info("company logo uploaded", zap.String("company_id", id.String()), zap.String("key", key))
	c.Logo = logoURL
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapErr(err)
	}
	return nil
}

func normalize(f Fields) Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Address = strings.TrimSpace(f.Address)
	f.Website = strings.TrimSpace(f.Website)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.LinkHR = strings.TrimSpace(f.LinkHR)
	return f
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Компания не найдена.")
	}
	return apperr.Internal(err)
}
