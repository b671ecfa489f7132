package resume

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/logger"
	"github.com/artem13815/hr-crm/pkg/validate"
)

var ErrNotFound = errors.New("resume not found")

// Repository: порт доступа к резюме. Create и Update пишут резюме вместе с
// опытом работы и образованием в одной транзакции.
type Repository interface {
	Create(ctx context.Context, r Resume) error
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (Resume, error)
	// GetAny is the recruiter's view.
	GetAny(ctx context.Context, id uuid.UUID) (Resume, error)
	List(ctx context.Context, q *filter.Query) ([]Resume, error)
	Update(ctx context.Context, r Resume) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Viewer is the caller; recruiters read every resume, applicants only theirs.
type Viewer struct {
	ID   uuid.UUID
	Role auth.Role
}

func (v Viewer) seesAll() bool { return v.Role == auth.RoleHR }

type UseCase interface {
	Create(ctx context.Context, owner uuid.UUID, f Fields) (Resume, error)
	Get(ctx context.Context, viewer Viewer, id uuid.UUID) (Resume, error)
	List(ctx context.Context, viewer Viewer, params url.Values) ([]Resume, error)
	Replace(ctx context.Context, owner, id uuid.UUID, f Fields) (Resume, error)
	Update(ctx context.Context, owner, id uuid.UUID, p Patch) (Resume, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

var Filters = filter.Spec{
	Fields: []filter.Field{
		{Param: "salary_expectations", Column: "r.salary_expectations", Kind: filter.Range},
		{Param: "employment_type", Column: "r.employment_type", Kind: filter.MultiChoice, Table: choices.EmploymentType},
		{Param: "schedule_work", Column: "r.schedule_work", Kind: filter.MultiChoice, Table: choices.ScheduleWork},
		{Param: "education", Column: "r.education", Kind: filter.Choice, Table: choices.Education},
		{Param: "relocation", Column: "r.relocation", Kind: filter.Choice, Table: choices.Relocation},
		{Param: "working_trip", Column: "r.working_trip", Kind: filter.Bool},
		{Param: "job_title", Column: "r.job_title", Kind: filter.Exact},
		{Param: "town", Column: "r.town", Kind: filter.Exact},
		{Param: "citizenship", Column: "r.citizenship", Kind: filter.Exact},
	},
	Search: []string{"r.job_title", "r.town", "r.current_job"},
	Ordering: map[string]string{
		"job_title":       "r.job_title",
		"current_company": "r.current_company",
		"pub_date":        "r.pub_date",
	},
	DefaultOrder: []string{"pub_date"},
	TieBreak:     "r.seq",
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

func (s *service) Create(ctx context.Context, owner uuid.UUID, f Fields) (Resume, error) {
	r := Resume{ID: uuid.New(), ApplicantID: owner, Fields: normalize(f), PubDate: s.now().UTC()}
	if err := s.check(r.Fields); err != nil {
		return Resume{}, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return Resume{}, mapErr(err)
	}
	s.log.Info("resume created",
		zap.String("resume_id", r.ID.String()),
		zap.String("applicant_id", owner.String()),
		zap.Int("work_experiences", len(r.WorkExperiences)),
		zap.Int("educations", len(r.Educations)))
	return s.own(ctx, owner, r.ID)
}

func (s *service) Get(ctx context.Context, viewer Viewer, id uuid.UUID) (Resume, error) {
	if !viewer.seesAll() {
		return s.own(ctx, viewer.ID, id)
	}
	r, err := s.repo.GetAny(ctx, id)
	if err != nil {
		return Resume{}, mapErr(err)
	}
	return r, nil
}

func (s *service) List(ctx context.Context, viewer Viewer, params url.Values) ([]Resume, error) {
	q, err := filter.Parse(Filters, s.validate.Registry(), params)
	if err != nil {
		return nil, err
	}
	if !viewer.seesAll() {
		q.Where("r.applicant_id = ?", viewer.ID)
	}
	out, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Replace(ctx context.Context, owner, id uuid.UUID, f Fields) (Resume, error) {
	r, err := s.own(ctx, owner, id)
	if err != nil {
		return Resume{}, err
	}
	r.Fields = normalize(f)
	return s.save(ctx, r)
}

func (s *service) Update(ctx context.Context, owner, id uuid.UUID, p Patch) (Resume, error) {
	r, err := s.own(ctx, owner, id)
	if err != nil {
		return Resume{}, err
	}
	p.Apply(&r.Fields)
	r.Fields = normalize(r.Fields)
	return s.save(ctx, r)
}

func (s *service) save(ctx context.Context, r Resume) (Resume, error) {
	if err := s.check(r.Fields); err != nil {
		return Resume{}, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return Resume{}, mapErr(err)
	}
	return s.own(ctx, r.ApplicantID, r.ID)
}

func (s *service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return mapErr(err)
	}
	s.log.Info("resume deleted", zap.String("resume_id", id.String()))
	return nil
}

func (s *service) own(ctx context.Context, owner, id uuid.UUID) (Resume, error) {
	r, err := s.repo.GetForOwner(ctx, owner, id)
	if err != nil {
		return Resume{}, mapErr(err)
	}
	return r, nil
}

func (s *service) check(f Fields) error {
	if err := s.validate.Struct(f); err != nil {
		return err
	}
	if f.Birthday == nil {
		return apperr.Required("bday")
	}
	if err := s.validate.BirthDate("bday", &f.Birthday.Time); err != nil {
		return err
	}
	if err := f.Salary.Validate(); err != nil {
		return apperr.Validation("salary_expectations", err.Error())
	}
	for i, w := range f.WorkExperiences {
		if w.StartDate == nil {
			return apperr.Required(fmt.Sprintf("work_experiences[%d].start_date", i))
		}
		// same day is a valid (one-day) job
		if w.EndDate != nil && w.EndDate.Before(*w.StartDate) {
			return apperr.Validation(fmt.Sprintf("work_experiences[%d].end_date", i),
				"Дата увольнения не может быть меньше даты устройства на работу!")
		}
	}
	return nil
}

func normalize(f Fields) Fields {
	f.JobTitle = strings.TrimSpace(f.JobTitle)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Town = strings.TrimSpace(f.Town)
	f.Citizenship = strings.TrimSpace(f.Citizenship)
	f.AboutMe = strings.TrimSpace(f.AboutMe)
	f.CurrentCompany = strings.TrimSpace(f.CurrentCompany)
	f.CurrentJob = strings.TrimSpace(f.CurrentJob)
	f.EmploymentType = choices.Dedup(f.EmploymentType)
	f.ScheduleWork = choices.Dedup(f.ScheduleWork)
	for i := range f.WorkExperiences {
		f.WorkExperiences[i].Position = strings.TrimSpace(f.WorkExperiences[i].Position)
		f.WorkExperiences[i].Organization = strings.TrimSpace(f.WorkExperiences[i].Organization)
	}
	for i := range f.Educations {
		f.Educations[i].Institution = strings.TrimSpace(f.Educations[i].Institution)
		f.Educations[i].Faculty = strings.TrimSpace(f.Educations[i].Faculty)
		f.Educations[i].Specialization = strings.TrimSpace(f.Educations[i].Specialization)
	}
	return f
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Резюме не найдено.")
	}
	return apperr.Internal(err)
}
