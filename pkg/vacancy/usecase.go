package vacancy

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/logger"
	"github.com/artem13815/hr-crm/pkg/nlp"
	"github.com/artem13815/hr-crm/pkg/validate"
)

var (
	ErrNotFound        = errors.New("vacancy not found")
	ErrCompanyNotFound = errors.New("company not found")
)

// Repository: порт для работы с вакансиями. Create и Update пишут вакансию
// вместе со стеком навыков в одной транзакции.
type Repository interface {
	Create(ctx context.Context, v Vacancy) error
	// Get returns the vacancy only when author is its author.
	Get(ctx context.Context, author, id uuid.UUID) (Vacancy, error)
	List(ctx context.Context, q *filter.Query) ([]Vacancy, error)
	Update(ctx context.Context, v Vacancy) error
	Delete(ctx context.Context, author, id uuid.UUID) error
}

// UseCase works on behalf of a recruiter and only sees their vacancies.
type UseCase interface {
	Create(ctx context.Context, user uuid.UUID, f Fields) (Vacancy, error)
	Get(ctx context.Context, user, id uuid.UUID) (Vacancy, error)
	List(ctx context.Context, user uuid.UUID, params url.Values) ([]Vacancy, error)
	Replace(ctx context.Context, user, id uuid.UUID, f Fields) (Vacancy, error)
	Update(ctx context.Context, user, id uuid.UUID, p Patch) (Vacancy, error)
	Delete(ctx context.Context, user, id uuid.UUID) error
}

const skillSearch = `EXISTS (SELECT 1 FROM vacancy_skills vs JOIN skills s ON s.id = vs.skill_id
	WHERE vs.vacancy_id = v.id AND s.name ILIKE ?)`

var Filters = filter.Spec{
	Fields: []filter.Field{
		{Param: "employment_type", Column: "v.employment_type", Kind: filter.MultiChoice, Table: choices.EmploymentType},
		{Param: "schedule_work", Column: "v.schedule_work", Kind: filter.MultiChoice, Table: choices.ScheduleWork},
		{Param: "salary_range", Column: "v.salary", Kind: filter.Range},
		{Param: "vacancy_status", Column: "v.vacancy_status", Kind: filter.Choice, Table: choices.VacancyStatus},
		{Param: "required_experience", Column: "v.required_experience", Kind: filter.Choice, Table: choices.Experience},
		{Param: "education", Column: "v.education", Kind: filter.Choice, Table: choices.Education},
		{Param: "company", Column: "v.company_id::text", Kind: filter.Exact},
		{Param: "city", Column: "v.city", Kind: filter.Exact},
	},
	Search: []string{"v.vacancy_title", "c.company_title", "v.city", skillSearch},
	Expand: nlp.SkillVariants,
	Ordering: map[string]string{
		"vacancy_status": "v.vacancy_status",
		"deadline":       "v.deadline",
		"pub_date":       "v.pub_date",
	},
	DefaultOrder: []string{"pub_date"},
	TieBreak:     "v.seq",
}

type service struct {
	repo     Repository
	validate *validate.Validator
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, v *validate.Validator, log *zap.Logger) UseCase {
	return &service{repo: repo, validate: v, log: logger.OrNop(log), now: time.Now}
}

func (s *service) Create(ctx context.Context, user uuid.UUID, f Fields) (Vacancy, error) {
	v := Vacancy{
		ID:      uuid.New(),
		Fields:  normalize(f),
		Author:  AuthoredBy(user),
		PubDate: s.now().UTC(),
	}
	if v.Deadline == nil {
		d := dateonly.Of(v.PubDate).AddDays(DeadlineDays)
		v.Deadline = &d
	}
	if err := s.check(v); err != nil {
		return Vacancy{}, err
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Vacancy{}, mapErr(err)
	}
	s.log.Info("vacancy created", zap.String("vacancy_id", v.ID.String()), zap.String("author_id", user.String()))
	return s.Get(ctx, user, v.ID)
}

func (s *service) Get(ctx context.Context, user, id uuid.UUID) (Vacancy, error) {
	v, err := s.repo.Get(ctx, user, id)
	if err != nil {
		return Vacancy{}, mapErr(err)
	}
	return v, nil
}

func (s *service) List(ctx context.Context, user uuid.UUID, params url.Values) ([]Vacancy, error) {
	q, err := filter.Parse(Filters, s.validate.Registry(), params)
	if err != nil {
		return nil, err
	}
	// a vacancy whose author was removed has NULL here and never matches
	q.Where("v.author_id = ?", user)
	out, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Replace(ctx context.Context, user, id uuid.UUID, f Fields) (Vacancy, error) {
	v, err := s.Get(ctx, user, id)
	if err != nil {
		return Vacancy{}, err
	}
	v.Fields = normalize(f)
	return s.save(ctx, user, v)
}

func (s *service) Update(ctx context.Context, user, id uuid.UUID, p Patch) (Vacancy, error) {
	v, err := s.Get(ctx, user, id)
	if err != nil {
		return Vacancy{}, err
	}
	p.Apply(&v.Fields)
	v.Fields = normalize(v.Fields)
	return s.save(ctx, user, v)
}

func (s *service) save(ctx context.Context, user uuid.UUID, v Vacancy) (Vacancy, error) {
	if v.Deadline == nil {
		d := dateonly.Of(v.PubDate).AddDays(DeadlineDays)
		v.Deadline = &d
	}
	v.Author = AuthoredBy(user)
	if err := s.check(v); err != nil {
		return Vacancy{}, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return Vacancy{}, mapErr(err)
	}
	return s.Get(ctx, user, v.ID)
}

func (s *service) Delete(ctx context.Context, user, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, user, id); err != nil {
		return mapErr(err)
	}
	s.log.Info("vacancy deleted", zap.String("vacancy_id", id.String()))
	return nil
}

func (s *service) check(v Vacancy) error {
	if err := s.validate.Struct(v.Fields); err != nil {
		return err
	}
	if v.CompanyID == uuid.Nil {
		return apperr.Required("company")
	}
	if err := v.Salary.Validate(); err != nil {
		return apperr.Validation("salary_range", err.Error())
	}
	if v.Deadline != nil && v.Deadline.Before(dateonly.Of(v.PubDate)) {
		return apperr.Validation("deadline", "Срок закрытия не может быть раньше даты публикации.")
	}
	return nil
}

// normalize trims text, drops repeated codes and merges skills that differ
// only in spelling.
func normalize(f Fields) Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.City = strings.TrimSpace(f.City)
	f.Address = strings.TrimSpace(f.Address)
	f.EmploymentType = choices.Dedup(f.EmploymentType)
	f.ScheduleWork = choices.Dedup(f.ScheduleWork)
	if f.SkillStack != nil {
		seen := make(map[string]struct{}, len(f.SkillStack))
		stack := make([]SkillStack, 0, len(f.SkillStack))
		for _, st := range f.SkillStack {
			st.Skill = nlp.CleanSkill(st.Skill)
			key := nlp.SkillKey(st.Skill)
			if _, dup := seen[key]; dup && key != "" {
				continue
			}
			seen[key] = struct{}{}
			stack = append(stack, st)
		}
		f.SkillStack = stack
	}
	return f
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Вакансия не найдена.")
	case errors.Is(err, ErrCompanyNotFound):
		return apperr.Validation("company", "Компания не найдена.")
	default:
		return apperr.Internal(err)
	}
}
