package vacancy

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/salary"
	"github.com/artem13815/hr-crm/pkg/validate"
)

type memRepo struct {
	items     map[uuid.UUID]Vacancy
	companies map[uuid.UUID]bool
	lastQ     *filter.Query
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[uuid.UUID]Vacancy{}, companies: map[uuid.UUID]bool{}}
}

func (r *memRepo) Create(_ context.Context, v Vacancy) error {
	if !r.companies[v.CompanyID] {
		return ErrCompanyNotFound
	}
	r.items[v.ID] = v
	return nil
}

func (r *memRepo) Get(_ context.Context, author, id uuid.UUID) (Vacancy, error) {
	v, ok := r.items[id]
	if !ok || !v.Author.Is(author) {
		return Vacancy{}, ErrNotFound
	}
	return v, nil
}

func (r *memRepo) List(_ context.Context, q *filter.Query) ([]Vacancy, error) {
	r.lastQ = q
	var out []Vacancy
	for _, v := range r.items {
		out = append(out, v)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, v Vacancy) error {
	if !r.companies[v.CompanyID] {
		return ErrCompanyNotFound
	}
	r.items[v.ID] = v
	return nil
}

func (r *memRepo) Delete(_ context.Context, author, id uuid.UUID) error {
	v, ok := r.items[id]
	if !ok || !v.Author.Is(author) {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var pubTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*service, *memRepo, uuid.UUID) {
	repo := newMemRepo()
	companyID := uuid.New()
	repo.companies[companyID] = true
	svc := NewService(repo, validate.New(choices.Default(), 14, 100), nil).(*service)
	svc.now = func() time.Time { return pubTime }
	return svc, repo, companyID
}

func draft(companyID uuid.UUID) Fields {
	return Fields{
		Title:          "Go-разработчик",
		CompanyID:      companyID,
		City:           "Москва",
		EmploymentType: []string{"PO", "PO", "CH"},
		Salary:         &salary.Pair{Min: 100, Max: 150},
		Status:         "D",
		SkillStack: []SkillStack{
			{Skill: " Go ", Experience: 3},
			{Skill: "go", Experience: 1},
			{Skill: "PostgreSQL", Experience: 2},
		},
	}
}

func TestCreateStampsAuthorAndDefaults(t *testing.T) {
	svc, _, companyID := newTestService()
	author := uuid.New()

	v, err := svc.Create(context.Background(), author, draft(companyID))
	require.NoError(t, err)

	assert.True(t, v.Author.Is(author))
	assert.Equal(t, pubTime, v.PubDate)
	require.NotNil(t, v.Deadline)
	assert.Equal(t, "2024-03-31", v.Deadline.String())
	assert.Equal(t, []string{"PO", "CH"}, v.EmploymentType)
	require.Len(t, v.SkillStack, 2)
	assert.Equal(t, SkillStack{Skill: "Go", Experience: 3}, v.SkillStack[0])
}

func TestCreateValidation(t *testing.T) {
	svc, _, companyID := newTestService()
	author := uuid.New()
	cases := []struct {
		name  string
		mut   func(*Fields)
		field string
	}{
		{"salary order", func(f *Fields) { f.Salary = &salary.Pair{Min: 200, Max: 100} }, "salary_range"},
		{"negative salary", func(f *Fields) { f.Salary = &salary.Pair{Min: -1, Max: 100} }, "salary_range"},
		{"unknown status", func(f *Fields) { f.Status = "Z" }, "vacancy_status"},
		{"unknown schedule", func(f *Fields) { f.ScheduleWork = []string{"P", "Q"} }, "schedule_work[1]"},
		{"no company", func(f *Fields) { f.CompanyID = uuid.Nil }, "company"},
		{"missing company", func(f *Fields) { f.CompanyID = uuid.New() }, "company"},
		{"deadline before publication", func(f *Fields) {
			d := dateonly.New(2024, 2, 1)
			f.Deadline = &d
		}, "deadline"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := draft(companyID)
			tc.mut(&f)
			_, err := svc.Create(context.Background(), author, f)
			require.Error(t, err)
			ae := apperr.As(err)
			assert.Equal(t, apperr.KindValidation, ae.Kind)
			assert.Equal(t, tc.field, ae.Field)
		})
	}
}

func TestOtherRecruitersCannotSeeVacancy(t *testing.T) {
	svc, _, companyID := newTestService()
	ctx := context.Background()
	author, other := uuid.New(), uuid.New()

	v, err := svc.Create(ctx, author, draft(companyID))
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, v.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.Update(ctx, other, v.ID, Patch{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	err = svc.Delete(ctx, other, v.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.Delete(ctx, author, v.ID))
}

func TestRemovedAuthorMatchesNobody(t *testing.T) {
	svc, repo, companyID := newTestService()
	orphan := Vacancy{ID: uuid.New(), Fields: draft(companyID), PubDate: pubTime}
	repo.items[orphan.ID] = orphan

	_, err := svc.Get(context.Background(), uuid.Nil, orphan.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var a Author
	assert.False(t, a.Is(uuid.Nil))
	assert.Nil(t, a.Ptr())
	assert.False(t, AuthoredBy(uuid.Nil).Is(uuid.Nil))
	assert.True(t, AuthorFromPtr(nil) == Author{})
}

func TestListScopesToAuthorAndFilters(t *testing.T) {
	svc, repo, _ := newTestService()
	author := uuid.New()

	_, err := svc.List(context.Background(), author, url.Values{"vacancy_status": {"D"}, "search": {"go"}})
	require.NoError(t, err)

	sql, args := repo.lastQ.SQL("SELECT v.id FROM vacancies v JOIN companies c ON c.id = v.company_id")
	assert.Contains(t, sql, "v.vacancy_status = $1")
	assert.Contains(t, sql, "v.author_id = $")
	assert.Contains(t, sql, "ORDER BY v.pub_date ASC, v.seq ASC")
	assert.Contains(t, args, author)
	// "go" also searches for its alias
	assert.Contains(t, args, "%golang%")

	_, err = svc.List(context.Background(), author, url.Values{"ordering": {"salary"}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPatchKeepsUnsentAndPubDate(t *testing.T) {
	svc, _, companyID := newTestService()
	ctx := context.Background()
	author := uuid.New()
	v, err := svc.Create(ctx, author, draft(companyID))
	require.NoError(t, err)

	svc.now = func() time.Time { return pubTime.AddDate(0, 1, 0) }
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"vacancy_status":"A","salary_range":null}`), &p))
	updated, err := svc.Update(ctx, author, v.ID, p)
	require.NoError(t, err)

	assert.Equal(t, "A", updated.Status)
	assert.Nil(t, updated.Salary)
	assert.Equal(t, "Go-разработчик", updated.Title)
	assert.Equal(t, pubTime, updated.PubDate)
}

func TestReplaceResetsDeadline(t *testing.T) {
	svc, _, companyID := newTestService()
	ctx := context.Background()
	author := uuid.New()
	f := draft(companyID)
	d := dateonly.New(2024, 6, 1)
	f.Deadline = &d
	v, err := svc.Create(ctx, author, f)
	require.NoError(t, err)

	replaced, err := svc.Replace(ctx, author, v.ID, draft(companyID))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", replaced.Deadline.String())
}

func TestSalaryAcceptsArrayAndObject(t *testing.T) {
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(`{"salary_range":[100,150]}`), &f))
	assert.Equal(t, &salary.Pair{Min: 100, Max: 150}, f.Salary)

	require.NoError(t, json.Unmarshal([]byte(`{"salary_range":{"min":1,"max":2}}`), &f))
	assert.Equal(t, &salary.Pair{Min: 1, Max: 2}, f.Salary)
}
