package candidate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/logger"
	"github.com/artem13815/hr-crm/pkg/storage/files"
	"github.com/artem13815/hr-crm/pkg/vacancy"
	"github.com/artem13815/hr-crm/pkg/validate"
)

var (
	ErrNotFound   = errors.New("candidate not found")
	ErrEmailTaken = errors.New("candidate email already exists")
)

const (
	maxUpload       = 10 << 20
	maxCustomStatus = 255
)

type Repository interface {
	Create(ctx context.Context, c Candidate) error
	// Get looks the candidate up inside a vacancy.
	Get(ctx context.Context, vacancyID, id uuid.UUID) (Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	List(ctx context.Context, q *filter.Query) ([]Candidate, error)
	Update(ctx context.Context, c Candidate) error
	Delete(ctx context.Context, vacancyID, id uuid.UUID) error
}

// Vacancies resolves a vacancy the recruiter is allowed to see.
type Vacancies interface {
	Get(ctx context.Context, user, id uuid.UUID) (vacancy.Vacancy, error)
}

// UseCase manages candidates under a vacancy owned by the caller.
type UseCase interface {
	Create(ctx context.Context, user, vacancyID uuid.UUID, in Input) (Candidate, error)
	Get(ctx context.Context, user, vacancyID, id uuid.UUID) (Candidate, error)
	List(ctx context.Context, user, vacancyID uuid.UUID, params url.Values) ([]Candidate, error)
	Replace(ctx context.Context, user, vacancyID, id uuid.UUID, in Input) (Candidate, error)
	Update(ctx context.Context, user, vacancyID, id uuid.UUID, p Patch) (Candidate, error)
	Delete(ctx context.Context, user, vacancyID, id uuid.UUID) error
	UploadResume(ctx context.Context, user, vacancyID, id uuid.UUID, filename string, data []byte) (Candidate, error)
	UploadPhoto(ctx context.Context, user, vacancyID, id uuid.UUID, filename string, data []byte) (Candidate, error)
	// Resolve finds a candidate by id for nested resources (notes, funnel, events).
	Resolve(ctx context.Context, user, id uuid.UUID) (Candidate, error)
}

// Filters describes list filtering; interview_status sorts by pipeline position.
func Filters(reg *choices.Registry) filter.Spec {
	return filter.Spec{
		Fields: []filter.Field{
			{Param: "employment_type", Column: "cd.employment_type", Kind: filter.MultiChoice, Table: choices.EmploymentType},
			{Param: "schedule_work", Column: "cd.schedule_work", Kind: filter.MultiChoice, Table: choices.ScheduleWork},
			{Param: "salary_expectations", Column: "cd.salary_expectations", Kind: filter.Range},
			{Param: "education", Column: "cd.education", Kind: filter.Choice, Table: choices.Education},
			{Param: "work_experiences", Column: "cd.work_experiences", Kind: filter.Choice, Table: choices.Experience},
			{Param: "interview_status", Column: "cd.interview_status", Kind: filter.Choice, Table: choices.InterviewStatus},
			{Param: "candidate_status", Column: "cd.candidate_status", Kind: filter.Choice, Table: choices.CandidateStatus},
			{Param: "gender", Column: "cd.gender", Kind: filter.Choice, Table: choices.Gender},
			{Param: "city", Column: "cd.city", Kind: filter.Exact},
			{Param: "custom_status", Column: "cd.custom_status", Kind: filter.Exact},
		},
		Search: []string{
			"cd.first_name", "cd.last_name", "cd.patronymic", "cd.city", "cd.last_job",
			"cd.cur_position", "cd.phone_number", "cd.email", "cd.telegram", "cd.resume_text",
		},
		Ordering: map[string]string{
			"last_name":           "cd.last_name",
			"city":                "cd.city",
			"candidate_status":    "cd.candidate_status",
			"last_job":            "cd.last_job",
			"cur_position":        "cd.cur_position",
			"salary_expectations": "cd.salary_expectations",
			"work_experiences":    "cd.work_experiences",
			"education":           "cd.education",
			"interview_status":    positionExpr("cd.interview_status", reg.Table(choices.InterviewStatus)),
			"pub_date":            "cd.pub_date",
		},
		DefaultOrder: []string{"pub_date"},
		TieBreak:     "cd.seq",
	}
}

// positionExpr ranks col by the table order; custom statuses sort as NULL.
func positionExpr(col string, tbl *choices.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CASE %s", col)
	for _, code := range tbl.Codes() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", strings.ReplaceAll(code, "'", "''"), tbl.Position(code))
	}
	b.WriteString(" END")
	return b.String()
}

type service struct {
	repo      Repository
	vacancies Vacancies
	files     files.Store
	validate  *validate.Validator
	filters   filter.Spec
	log       *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, vacancies Vacancies, store files.Store, v *validate.Validator, log *zap.Logger) UseCase {
	return &service{
		repo:      repo,
		vacancies: vacancies,
		files:     store,
		validate:  v,
		filters:   Filters(v.Registry()),
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, user, vacancyID uuid.UUID, in Input) (Candidate, error) {
	if _, err := s.vacancies.Get(ctx, user, vacancyID); err != nil {
		return Candidate{}, err
	}
	c := Candidate{
		ID:        uuid.New(),
		VacancyID: vacancyID,
		Fields:    normalize(in.Fields),
		PubDate:   s.now().UTC(),
	}
	if c.CandidateStatus == "" {
		c.CandidateStatus = DefaultCandidateStatus
	}
	if err := s.check(&c, in.InterviewStatus, in.CustomStatus); err != nil {
		return Candidate{}, err
	}
	stored, err := s.attachInlineResume(ctx, &c, in.Resume)
	if err != nil {
		return Candidate{}, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.discard(ctx, stored)
		return Candidate{}, mapErr(err)
	}
	s.log.Info("candidate created", zap.String("candidate_id", c.ID.String()), zap.String("vacancy_id", vacancyID.String()))
	return c, nil
}

func (s *service) Get(ctx context.Context, user, vacancyID, id uuid.UUID) (Candidate, error) {
	if _, err := s.vacancies.Get(ctx, user, vacancyID); err != nil {
		return Candidate{}, err
	}
	c, err := s.repo.Get(ctx, vacancyID, id)
	if err != nil {
		return Candidate{}, mapErr(err)
	}
	return c, nil
}

func (s *service) List(ctx context.Context, user, vacancyID uuid.UUID, params url.Values) ([]Candidate, error) {
	if _, err := s.vacancies.Get(ctx, user, vacancyID); err != nil {
		return nil, err
	}
	q, err := filter.Parse(s.filters, s.validate.Registry(), params)
	if err != nil {
		return nil, err
	}
	q.Where("cd.vacancy_id = ?", vacancyID)
	out, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Replace(ctx context.Context, user, vacancyID, id uuid.UUID, in Input) (Candidate, error) {
	c, err := s.Get(ctx, user, vacancyID, id)
	if err != nil {
		return Candidate{}, err
	}
	c.Fields = normalize(in.Fields)
	if c.CandidateStatus == "" {
		c.CandidateStatus = DefaultCandidateStatus
	}
	if err := s.check(&c, in.InterviewStatus, in.CustomStatus); err != nil {
		return Candidate{}, err
	}
	stored, err := s.attachInlineResume(ctx, &c, in.Resume)
	if err != nil {
		return Candidate{}, err
	}
	return s.save(ctx, c, stored)
}

func (s *service) Update(ctx context.Context, user, vacancyID, id uuid.UUID, p Patch) (Candidate, error) {
	c, err := s.Get(ctx, user, vacancyID, id)
	if err != nil {
		return Candidate{}, err
	}
	interview, custom := p.mergeStatus(c.Status)
	p.Apply(&c.Fields)
	c.Fields = normalize(c.Fields)
	if err := s.check(&c, interview, custom); err != nil {
		return Candidate{}, err
	}
	var stored string
	if p.Resume.Set {
		if p.Resume.Null || p.Resume.Value == "" {
			c.Resume, c.ResumeText = "", ""
		} else if stored, err = s.attachInlineResume(ctx, &c, p.Resume.Value); err != nil {
			return Candidate{}, err
		}
	}
	return s.save(ctx, c, stored)
}

// save writes c; stored is the key of a file saved for this write and is
// removed again when the row cannot be written.
func (s *service) save(ctx context.Context, c Candidate, stored string) (Candidate, error) {
	if err := s.repo.Update(ctx, c); err != nil {
		s.discard(ctx, stored)
		return Candidate{}, mapErr(err)
	}
	return c, nil
}

func (s *service) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil {
		s.log.Warn("stored file cleanup failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) Delete(ctx context.Context, user, vacancyID, id uuid.UUID) error {
	if _, err := s.vacancies.Get(ctx, user, vacancyID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, vacancyID, id); err != nil {
		return mapErr(err)
	}
	return nil
}

// UploadResume stores a PDF or DOCX and indexes its text for search.
func (s *service) UploadResume(ctx context.Context, user, vacancyID, id uuid.UUID, filename string, data []byte) (Candidate, error) {
	c, err := s.Get(ctx, user, vacancyID, id)
	if err != nil {
		return Candidate{}, err
	}
	if err := checkUpload("resume", data); err != nil {
		return Candidate{}, err
	}
	text, err := files.ResumeText(filename, data)
	if err != nil {
		if errors.Is(err, files.ErrUnsupportedFormat) {
			return Candidate{}, apperr.Validation("resume", err.Error())
		}
		// unreadable text layer: keep the file, skip indexing
		s.log.Warn("resume text extraction failed", zap.String("candidate_id", id.String()), zap.Error(err))
	}
	key := files.CandidateKey(id, "resume", filename, s.now().UTC())
	fileURL, err := s.files.Save(ctx, key, http.DetectContentType(data), data)
	if err != nil {
		return Candidate{}, apperr.Internal(fmt.Errorf("store resume: %w", err))
	}
	c.Resume, c.ResumeText = fileURL, text
	return s.save(ctx, c, key)
}

func (s *service) UploadPhoto(ctx context.Context, user, vacancyID, id uuid.UUID, filename string, data []byte) (Candidate, error) {
	c, err := s.Get(ctx, user, vacancyID, id)
	if err != nil {
		return Candidate{}, err
	}
	if err := checkUpload("photo", data); err != nil {
		return Candidate{}, err
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return Candidate{}, apperr.Validation("photo", "Загрузите корректное изображение.")
	}
	key := files.CandidateKey(id, "photo", filename, s.now().UTC())
	fileURL, err := s.files.Save(ctx, key, contentType, data)
	if err != nil {
		return Candidate{}, apperr.Internal(fmt.Errorf("store photo: %w", err))
	}
	c.Photo = fileURL
	return s.save(ctx, c, key)
}

func (s *service) Resolve(ctx context.Context, user, id uuid.UUID) (Candidate, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Candidate{}, mapErr(err)
	}
	if _, err := s.vacancies.Get(ctx, user, c.VacancyID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Candidate{}, apperr.NotFound("Кандидат не найден.")
		}
		return Candidate{}, err
	}
	return c, nil
}

// check validates the merged entity and settles the interview status.
func (s *service) check(c *Candidate, interview, custom string) error {
	if err := s.validate.Struct(c.Fields); err != nil {
		return err
	}
	if c.Birthday == nil {
		return apperr.Required("bday")
	}
	if err := s.validate.BirthDate("bday", &c.Birthday.Time); err != nil {
		return err
	}
	if err := c.Salary.Validate(); err != nil {
		return apperr.Validation("salary_expectations", err.Error())
	}
	if err := s.validate.Choice("interview_status", choices.InterviewStatus, strings.TrimSpace(interview)); err != nil {
		return err
	}
	if utf8.RuneCountInString(custom) > maxCustomStatus {
		return apperr.Validation("custom_status", "Значение должно быть не длиннее 255.")
	}
	status, err := StatusOf(interview, custom)
	if err != nil {
		return apperr.Validation("custom_status", "Нельзя одновременно указать статус собеседования и собственный статус.")
	}
	c.Status = status
	return nil
}

// attachInlineResume returns the key of the stored file, empty when nothing
// was stored.
func (s *service) attachInlineResume(ctx context.Context, c *Candidate, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == c.Resume {
		return "", nil
	}
	if !files.IsDataURI(raw) {
		return "", apperr.Validation("resume", files.ErrDataURI.Error())
	}
	data, err := files.DecodePDFDataURI(raw)
	if err != nil {
		return "", apperr.Validation("resume", err.Error())
	}
	if len(data) > maxUpload {
		return "", apperr.Validation("resume", "Размер файла не должен превышать 10 МБ.")
	}
	key := files.CandidateKey(c.ID, "resume", "resume.pdf", s.now().UTC())
	fileURL, err := s.files.Save(ctx, key, "application/pdf", data)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("store resume: %w", err))
	}
	text, err := files.ResumeText("resume.pdf", data)
	if err != nil {
		s.log.Warn("resume text extraction failed", zap.String("candidate_id", c.ID.String()), zap.Error(err))
	}
	c.Resume, c.ResumeText = fileURL, text
	return key, nil
}

func checkUpload(field string, data []byte) error {
	if len(data) == 0 {
		return apperr.Required(field)
	}
	if len(data) > maxUpload {
		return apperr.Validation(field, "Размер файла не должен превышать 10 МБ.")
	}
	return nil
}

func normalize(f Fields) Fields {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Patronymic = strings.TrimSpace(f.Patronymic)
	f.City = strings.TrimSpace(f.City)
	f.LastJob = strings.TrimSpace(f.LastJob)
	f.CurPosition = strings.TrimSpace(f.CurPosition)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Telegram = strings.TrimSpace(f.Telegram)
	f.Portfolio = strings.TrimSpace(f.Portfolio)
	f.EmploymentType = choices.Dedup(f.EmploymentType)
	f.ScheduleWork = choices.Dedup(f.ScheduleWork)
	return f
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Кандидат не найден.")
	case errors.Is(err, ErrEmailTaken):
		return apperr.Conflict("email", "Кандидат с таким email уже существует.")
	default:
		return apperr.Internal(err)
	}
}
