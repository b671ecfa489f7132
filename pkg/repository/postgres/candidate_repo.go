package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/salary"
)

type CandidateRepository struct {
	pool *pgxpool.Pool
}

func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

const candidateSelect = `SELECT cd.id, cd.vacancy_id, cd.first_name, cd.last_name, cd.patronymic, cd.bday,
	cd.city, cd.last_job, cd.cur_position, cd.salary_expectations, cd.phone_number, cd.email,
	cd.telegram, cd.portfolio, cd.employment_type, cd.schedule_work, cd.work_experiences,
	cd.education, cd.gender, cd.candidate_status, cd.interview_status, cd.custom_status,
	cd.resume, cd.resume_text, cd.photo, cd.pub_date
FROM candidates cd`

func scanCandidate(r row) (candidate.Candidate, error) {
	var (
		c                 candidate.Candidate
		bday              *time.Time
		pair              []int32
		interview, custom *string
	)
	err := r.Scan(&c.ID, &c.VacancyID, &c.FirstName, &c.LastName, &c.Patronymic, &bday,
		&c.City, &c.LastJob, &c.CurPosition, &pair, &c.Phone, &c.Email,
		&c.Telegram, &c.Portfolio, &c.EmploymentType, &c.ScheduleWork, &c.Experience,
		&c.Education, &c.Gender, &c.CandidateStatus, &interview, &custom,
		&c.Resume, &c.ResumeText, &c.Photo, &c.PubDate)
	if err != nil {
		return candidate.Candidate{}, err
	}
	if c.Salary, err = salary.FromSlice(pair); err != nil {
		return candidate.Candidate{}, err
	}
	if c.Status, err = candidate.StatusOf(deref(interview), deref(custom)); err != nil {
		return candidate.Candidate{}, err
	}
	c.Birthday = dateOf(bday)
	c.PubDate = c.PubDate.UTC()
	return c, nil
}

func (r *CandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	interview, custom := c.Status.Columns()
	_, err := r.pool.Exec(ctx, `
INSERT INTO candidates (id, vacancy_id, first_name, last_name, patronymic, bday, city,
	last_job, cur_position, salary_expectations, phone_number, email, telegram, portfolio,
	employment_type, schedule_work, work_experiences, education, gender, candidate_status,
	interview_status, custom_status, resume, resume_text, photo, pub_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
	$19, $20, $21, $22, $23, $24, $25, $26)
`, c.ID, c.VacancyID, c.FirstName, c.LastName, c.Patronymic, dateArg(c.Birthday), c.City,
		c.LastJob, c.CurPosition, c.Salary.Slice(), c.Phone, c.Email, c.Telegram, c.Portfolio,
		textArray(c.EmploymentType), textArray(c.ScheduleWork), c.Experience, c.Education, c.Gender, c.CandidateStatus,
		nullable(interview), nullable(custom), c.Resume, c.ResumeText, c.Photo, c.PubDate)
	return candidateErr(err)
}

func (r *CandidateRepository) Get(ctx context.Context, vacancyID, id uuid.UUID) (candidate.Candidate, error) {
	return r.getOne(ctx, candidateSelect+` WHERE cd.id = $1 AND cd.vacancy_id = $2`, id, vacancyID)
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	return r.getOne(ctx, candidateSelect+` WHERE cd.id = $1`, id)
}

func (r *CandidateRepository) getOne(ctx context.Context, query string, args ...any) (candidate.Candidate, error) {
	c, err := scanCandidate(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return candidate.Candidate{}, candidate.ErrNotFound
	}
	return c, err
}

func (r *CandidateRepository) List(ctx context.Context, q *filter.Query) ([]candidate.Candidate, error) {
	query, args := q.SQL(candidateSelect)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites every column except the vacancy and the creation time.
func (r *CandidateRepository) Update(ctx context.Context, c candidate.Candidate) error {
	interview, custom := c.Status.Columns()
	tag, err := r.pool.Exec(ctx, `
UPDATE candidates SET first_name = $3, last_name = $4, patronymic = $5, bday = $6, city = $7,
	last_job = $8, cur_position = $9, salary_expectations = $10, phone_number = $11,
	email = $12, telegram = $13, portfolio = $14, employment_type = $15, schedule_work = $16,
	work_experiences = $17, education = $18, gender = $19, candidate_status = $20,
	interview_status = $21, custom_status = $22, resume = $23, resume_text = $24, photo = $25
WHERE id = $1 AND vacancy_id = $2
`, c.ID, c.VacancyID, c.FirstName, c.LastName, c.Patronymic, dateArg(c.Birthday), c.City,
		c.LastJob, c.CurPosition, c.Salary.Slice(), c.Phone,
		c.Email, c.Telegram, c.Portfolio, textArray(c.EmploymentType), textArray(c.ScheduleWork),
		c.Experience, c.Education, c.Gender, c.CandidateStatus,
		nullable(interview), nullable(custom), c.Resume, c.ResumeText, c.Photo)
	if err != nil {
		return candidateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func (r *CandidateRepository) Delete(ctx context.Context, vacancyID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1 AND vacancy_id = $2`, id, vacancyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func candidateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return candidate.ErrEmailTaken
	case isForeignKeyViolation(err):
		return candidate.ErrNotFound
	default:
		return err
	}
}
