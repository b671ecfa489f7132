package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/salary"
	"github.com/artem13815/hr-crm/pkg/vacancy"
)

// VacancyRepository хранит вакансии вместе со стеком навыков.
type VacancyRepository struct {
	pool *pgxpool.Pool
}

func NewVacancyRepository(pool *pgxpool.Pool) *VacancyRepository {
	return &VacancyRepository{pool: pool}
}

const vacancySelect = `SELECT v.id, v.vacancy_title, v.company_id, v.author_id, v.required_experience,
	v.employment_type, v.schedule_work, v.salary, v.city, v.address, v.education,
	v.job_conditions, v.job_responsibilities, v.vacancy_status, v.pub_date, v.deadline,
	c.company_title, u.first_name, u.last_name, u.email
FROM vacancies v
JOIN companies c ON c.id = v.company_id
LEFT JOIN users u ON u.id = v.author_id`

func scanVacancy(r row) (vacancy.Vacancy, error) {
	var (
		v                      vacancy.Vacancy
		author                 *uuid.UUID
		pair                   []int32
		deadline               *time.Time
		first, last, userEmail *string
	)
	err := r.Scan(&v.ID, &v.Title, &v.CompanyID, &author, &v.RequiredExperience,
		&v.EmploymentType, &v.ScheduleWork, &pair, &v.City, &v.Address, &v.Education,
		&v.JobConditions, &v.JobResponsibilities, &v.Status, &v.PubDate, &deadline,
		&v.CompanyTitle, &first, &last, &userEmail)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	if v.Salary, err = salary.FromSlice(pair); err != nil {
		return vacancy.Vacancy{}, err
	}
	v.Author = vacancy.AuthorFromPtr(author)
	v.AuthorName = displayName(first, last, userEmail)
	v.Deadline = dateOf(deadline)
	v.PubDate = v.PubDate.UTC()
	return v, nil
}

func (r *VacancyRepository) Create(ctx context.Context, v vacancy.Vacancy) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO vacancies (id, vacancy_title, company_id, author_id, required_experience,
	employment_type, schedule_work, salary, city, address, education,
	job_conditions, job_responsibilities, vacancy_status, pub_date, deadline)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`, v.ID, strings.TrimSpace(v.Title), v.CompanyID, v.Author.Ptr(), v.RequiredExperience,
		textArray(v.EmploymentType), textArray(v.ScheduleWork), v.Salary.Slice(), v.City, v.Address, v.Education,
		v.JobConditions, v.JobResponsibilities, v.Status, v.PubDate, dateArg(v.Deadline))
	if err != nil {
		return vacancyErr(err)
	}
	if err := writeSkills(ctx, tx, v.ID, v.SkillStack); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *VacancyRepository) Get(ctx context.Context, author, id uuid.UUID) (vacancy.Vacancy, error) {
	v, err := scanVacancy(r.pool.QueryRow(ctx, vacancySelect+`
WHERE v.id = $1 AND v.author_id = $2`, id, author))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vacancy.Vacancy{}, vacancy.ErrNotFound
		}
		return vacancy.Vacancy{}, err
	}
	out := []vacancy.Vacancy{v}
	if err := r.loadSkills(ctx, out); err != nil {
		return vacancy.Vacancy{}, err
	}
	return out[0], nil
}

func (r *VacancyRepository) List(ctx context.Context, q *filter.Query) ([]vacancy.Vacancy, error) {
	query, args := q.SQL(vacancySelect)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []vacancy.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadSkills(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the row and replaces the skill stack; only the author may.
func (r *VacancyRepository) Update(ctx context.Context, v vacancy.Vacancy) error {
	author, ok := v.Author.ID()
	if !ok {
		return vacancy.ErrNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
UPDATE vacancies SET vacancy_title = $3, company_id = $4, required_experience = $5,
	employment_type = $6, schedule_work = $7, salary = $8, city = $9, address = $10,
	education = $11, job_conditions = $12, job_responsibilities = $13,
	vacancy_status = $14, deadline = $15
WHERE id = $1 AND author_id = $2
`, v.ID, author, strings.TrimSpace(v.Title), v.CompanyID, v.RequiredExperience,
		textArray(v.EmploymentType), textArray(v.ScheduleWork), v.Salary.Slice(), v.City, v.Address,
		v.Education, v.JobConditions, v.JobResponsibilities, v.Status, dateArg(v.Deadline))
	if err != nil {
		return vacancyErr(err)
	}
	if tag.RowsAffected() == 0 {
		return vacancy.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM vacancy_skills WHERE vacancy_id = $1`, v.ID); err != nil {
		return err
	}
	if err := writeSkills(ctx, tx, v.ID, v.SkillStack); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *VacancyRepository) Delete(ctx context.Context, author, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vacancies WHERE id = $1 AND author_id = $2`, id, author)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vacancy.ErrNotFound
	}
	return nil
}

// writeSkills upserts skill names into the shared dictionary and links them.
func writeSkills(ctx context.Context, tx pgx.Tx, vacancyID uuid.UUID, stack []vacancy.SkillStack) error {
	for i, st := range stack {
		var skillID int64
		err := tx.QueryRow(ctx, `
INSERT INTO skills (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`, strings.TrimSpace(st.Skill)).Scan(&skillID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
INSERT INTO vacancy_skills (vacancy_id, skill_id, position, experience)
VALUES ($1, $2, $3, $4)
ON CONFLICT (vacancy_id, skill_id) DO UPDATE SET experience = EXCLUDED.experience
`, vacancyID, skillID, i, st.Experience)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *VacancyRepository) loadSkills(ctx context.Context, vs []vacancy.Vacancy) error {
	if len(vs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(vs))
	index := make(map[uuid.UUID]int, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
		index[v.ID] = i
		vs[i].SkillStack = []vacancy.SkillStack{}
	}
	rows, err := r.pool.Query(ctx, `
SELECT vs.vacancy_id, s.name, vs.experience
FROM vacancy_skills vs JOIN skills s ON s.id = vs.skill_id
WHERE vs.vacancy_id = ANY($1)
ORDER BY vs.vacancy_id, vs.position
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		var st vacancy.SkillStack
		if err := rows.Scan(&id, &st.Skill, &st.Experience); err != nil {
			return err
		}
		i := index[id]
		vs[i].SkillStack = append(vs[i].SkillStack, st)
	}
	return rows.Err()
}

func vacancyErr(err error) error {
	if isForeignKeyViolation(err) {
		return vacancy.ErrCompanyNotFound
	}
	return err
}

// textArray keeps NOT NULL text[] columns non-null.
func textArray(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
