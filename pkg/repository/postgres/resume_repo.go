package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/resume"
	"github.com/artem13815/hr-crm/pkg/salary"
)

// ResumeRepository хранит резюме соискателей с опытом работы и образованием.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) *ResumeRepository {
	return &ResumeRepository{pool: pool}
}

const resumeSelect = `SELECT r.id, r.applicant_id, r.job_title, r.employment_type, r.schedule_work,
	r.salary_expectations, r.working_trip, r.phone_number, r.education, r.town, r.citizenship,
	r.bday, r.relocation, r.gender, r.about_me, r.current_company, r.current_job, r.pub_date,
	u.first_name, u.last_name, u.email
FROM resumes r JOIN users u ON u.id = r.applicant_id`

func scanResume(rw row) (resume.Resume, error) {
	var (
		r                  resume.Resume
		pair               []int32
		bday               *time.Time
		first, last, email *string
	)
	err := rw.Scan(&r.ID, &r.ApplicantID, &r.JobTitle, &r.EmploymentType, &r.ScheduleWork,
		&pair, &r.WorkingTrip, &r.Phone, &r.Education, &r.Town, &r.Citizenship,
		&bday, &r.Relocation, &r.Gender, &r.AboutMe, &r.CurrentCompany, &r.CurrentJob, &r.PubDate,
		&first, &last, &email)
	if err != nil {
		return resume.Resume{}, err
	}
	if r.Salary, err = salary.FromSlice(pair); err != nil {
		return resume.Resume{}, err
	}
	r.Birthday = dateOf(bday)
	r.ApplicantName = displayName(first, last, email)
	r.PubDate = r.PubDate.UTC()
	return r, nil
}

func (r *ResumeRepository) Create(ctx context.Context, res resume.Resume) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO resumes (id, applicant_id, job_title, employment_type, schedule_work,
	salary_expectations, working_trip, phone_number, education, town, citizenship, bday,
	relocation, gender, about_me, current_company, current_job, pub_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
`, res.ID, res.ApplicantID, res.JobTitle, textArray(res.EmploymentType), textArray(res.ScheduleWork),
		res.Salary.Slice(), res.WorkingTrip, res.Phone, res.Education, res.Town, res.Citizenship, dateArg(res.Birthday),
		res.Relocation, res.Gender, res.AboutMe, res.CurrentCompany, res.CurrentJob, res.PubDate)
	if err != nil {
		return err
	}
	if err := writeResumeChildren(ctx, tx, res); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ResumeRepository) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Resume, error) {
	return r.getOne(ctx, resumeSelect+` WHERE r.id = $1 AND r.applicant_id = $2`, id, ownerID)
}

func (r *ResumeRepository) GetAny(ctx context.Context, id uuid.UUID) (resume.Resume, error) {
	return r.getOne(ctx, resumeSelect+` WHERE r.id = $1`, id)
}

func (r *ResumeRepository) getOne(ctx context.Context, query string, args ...any) (resume.Resume, error) {
	res, err := scanResume(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	out := []resume.Resume{res}
	if err := r.loadChildren(ctx, out); err != nil {
		return resume.Resume{}, err
	}
	return out[0], nil
}

func (r *ResumeRepository) List(ctx context.Context, q *filter.Query) ([]resume.Resume, error) {
	query, args := q.SQL(resumeSelect)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []resume.Resume
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, res)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the resume and replaces both child lists.
func (r *ResumeRepository) Update(ctx context.Context, res resume.Resume) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
UPDATE resumes SET job_title = $3, employment_type = $4, schedule_work = $5,
	salary_expectations = $6, working_trip = $7, phone_number = $8, education = $9, town = $10,
	citizenship = $11, bday = $12, relocation = $13, gender = $14, about_me = $15,
	current_company = $16, current_job = $17
WHERE id = $1 AND applicant_id = $2
`, res.ID, res.ApplicantID, res.JobTitle, textArray(res.EmploymentType), textArray(res.ScheduleWork),
		res.Salary.Slice(), res.WorkingTrip, res.Phone, res.Education, res.Town,
		res.Citizenship, dateArg(res.Birthday), res.Relocation, res.Gender, res.AboutMe,
		res.CurrentCompany, res.CurrentJob)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resume.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM work_experiences WHERE resume_id = $1`, res.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM educations WHERE resume_id = $1`, res.ID); err != nil {
		return err
	}
	if err := writeResumeChildren(ctx, tx, res); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ResumeRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return execAffected(ctx, r.pool, resume.ErrNotFound,
		`DELETE FROM resumes WHERE id = $1 AND applicant_id = $2`, id, ownerID)
}

func writeResumeChildren(ctx context.Context, tx pgx.Tx, res resume.Resume) error {
	for _, w := range res.WorkExperiences {
		_, err := tx.Exec(ctx, `
INSERT INTO work_experiences (resume_id, position, organization, start_date, end_date)
VALUES ($1, $2, $3, $4, $5)
`, res.ID, w.Position, w.Organization, dateArg(w.StartDate), dateArg(w.EndDate))
		if err != nil {
			return err
		}
	}
	for _, e := range res.Educations {
		_, err := tx.Exec(ctx, `
INSERT INTO educations (resume_id, educational_institution, faculty, specialization, graduation)
VALUES ($1, $2, $3, $4, $5)
`, res.ID, e.Institution, e.Faculty, e.Specialization, dateArg(e.Graduation))
		if err != nil {
			return err
		}
	}
	return nil
}

// loadChildren fills work experiences and educations for a page of resumes.
func (r *ResumeRepository) loadChildren(ctx context.Context, rs []resume.Resume) error {
	if len(rs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(rs))
	index := make(map[uuid.UUID]int, len(rs))
	for i, res := range rs {
		ids[i] = res.ID
		index[res.ID] = i
		rs[i].WorkExperiences = []resume.WorkExperience{}
		rs[i].Educations = []resume.Education{}
	}

	rows, err := r.pool.Query(ctx, `
SELECT resume_id, position, organization, start_date, end_date FROM work_experiences
WHERE resume_id = ANY($1) ORDER BY resume_id, start_date DESC, id
`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			id         uuid.UUID
			w          resume.WorkExperience
			start, end *time.Time
		)
		if err := rows.Scan(&id, &w.Position, &w.Organization, &start, &end); err != nil {
			rows.Close()
			return err
		}
		w.StartDate, w.EndDate = dateOf(start), dateOf(end)
		i := index[id]
		rs[i].WorkExperiences = append(rs[i].WorkExperiences, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.pool.Query(ctx, `
SELECT resume_id, educational_institution, faculty, specialization, graduation FROM educations
WHERE resume_id = ANY($1) ORDER BY resume_id, id
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id         uuid.UUID
			e          resume.Education
			graduation *time.Time
		)
		if err := rows.Scan(&id, &e.Institution, &e.Faculty, &e.Specialization, &graduation); err != nil {
			return err
		}
		e.Graduation = dateOf(graduation)
		i := index[id]
		rs[i].Educations = append(rs[i].Educations, e)
	}
	return rows.Err()
}
