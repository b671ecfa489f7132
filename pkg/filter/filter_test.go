package filter

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
)

var testSpec = Spec{
	Fields: []Field{
		{Param: "employment_type", Column: "v.employment_type", Kind: MultiChoice, Table: choices.EmploymentType},
		{Param: "salary_range", Column: "v.salary_range", Kind: Range},
		{Param: "vacancy_status", Column: "v.vacancy_status", Kind: Choice, Table: choices.VacancyStatus},
		{Param: "city", Column: "v.city", Kind: Exact},
		{Param: "working_trip", Column: "v.working_trip", Kind: Bool},
	},
	Search:       []string{"v.vacancy_title", "EXISTS (SELECT 1 FROM skills s WHERE s.name ILIKE ?)"},
	Ordering:     map[string]string{"pub_date": "v.pub_date", "deadline": "v.deadline"},
	DefaultOrder: []string{"pub_date"},
	TieBreak:     "v.seq",
}

func parse(t *testing.T, raw string) (*Query, error) {
	t.Helper()
	params, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return Parse(testSpec, choices.Default(), params)
}

func TestDefaultOrderingAndPagination(t *testing.T) {
	q, err := parse(t, "")
	require.NoError(t, err)

	sql, args := q.SQL("SELECT v.id FROM vacancies v")
	assert.Equal(t, "SELECT v.id FROM vacancies v\nORDER BY v.pub_date ASC, v.seq ASC\nLIMIT $1 OFFSET $2", sql)
	assert.Equal(t, []any{DefaultLimit, 0}, args)
}

func TestMultiChoiceAcceptsRepeatedAndCSV(t *testing.T) {
	q, err := parse(t, "employment_type=PO&employment_type=CH,PO")
	require.NoError(t, err)

	sql, args := q.SQL("SELECT 1")
	assert.Contains(t, sql, "v.employment_type && $1::text[]")
	assert.Equal(t, []string{"PO", "CH"}, args[0])
}

func TestInvalidCodeIsRejected(t *testing.T) {
	_, err := parse(t, "employment_type=XX")
	require.Error(t, err)
	assert.Equal(t, "employment_type", apperr.As(err).Field)

	_, err = parse(t, "vacancy_status=Z")
	require.Error(t, err)
}

func TestRange(t *testing.T) {
	q, err := parse(t, "salary_range=100,200")
	require.NoError(t, err)
	sql, args := q.SQL("SELECT 1")
	assert.Contains(t, sql, "v.salary_range[1] >= $1")
	assert.Contains(t, sql, "v.salary_range[2] <= $2")
	assert.Equal(t, 100, args[0])
	assert.Equal(t, 200, args[1])

	q, err = parse(t, "salary_range=,150")
	require.NoError(t, err)
	sql, _ = q.SQL("SELECT 1")
	assert.NotContains(t, sql, "[1] >=")
	assert.Contains(t, sql, "v.salary_range[2] <= $1")

	_, err = parse(t, "salary_range=300,100")
	require.Error(t, err)
	_, err = parse(t, "salary_range=abc")
	require.Error(t, err)
}

func TestExactAndBool(t *testing.T) {
	q, err := parse(t, "city=Москва&working_trip=true&vacancy_status=D")
	require.NoError(t, err)
	sql, args := q.SQL("SELECT 1")
	assert.Contains(t, sql, "v.vacancy_status = $1")
	assert.Contains(t, sql, "lower(v.city) = lower($2)")
	assert.Contains(t, sql, "v.working_trip = $3")
	assert.Equal(t, []any{"D", "Москва", true, DefaultLimit, 0}, args)

	_, err = parse(t, "working_trip=maybe")
	require.Error(t, err)
}

func TestSingleChoiceRejectsSeveralValues(t *testing.T) {
	for _, raw := range []string{"vacancy_status=A,D", "vacancy_status=A&vacancy_status=D"} {
		_, err := parse(t, raw)
		require.Error(t, err, raw)
		ae := apperr.As(err)
		assert.Equal(t, apperr.KindValidation, ae.Kind)
		assert.Equal(t, "vacancy_status", ae.Field)
	}
}

func TestExactKeepsCommas(t *testing.T) {
	q, err := parse(t, "city=Ростов-на-Дону, Россия")
	require.NoError(t, err)
	_, args := q.SQL("SELECT 1")
	assert.Equal(t, "Ростов-на-Дону, Россия", args[0])
}

func TestSearchANDsTermsAndORsColumns(t *testing.T) {
	q, err := parse(t, "search=go%20back_end")
	require.NoError(t, err)
	sql, args := q.SQL("SELECT 1")

	assert.Equal(t, 2, strings.Count(sql, "v.vacancy_title ILIKE"))
	assert.Contains(t, sql, "(v.vacancy_title ILIKE $1 OR EXISTS (SELECT 1 FROM skills s WHERE s.name ILIKE $2))")
	assert.Equal(t, "%go%", args[0])
	assert.Equal(t, `%back\_end%`, args[2])
}

func TestSearchExpansion(t *testing.T) {
	spec := testSpec
	spec.Expand = func(term string) []string { return []string{term, term + "lang"} }
	params, _ := url.ParseQuery("search=go")
	q, err := Parse(spec, choices.Default(), params)
	require.NoError(t, err)
	_, args := q.SQL("SELECT 1")
	assert.Equal(t, []any{"%go%", "%go%", "%golang%", "%golang%", DefaultLimit, 0}, args)
}

func TestOrdering(t *testing.T) {
	q, err := parse(t, "ordering=-deadline,pub_date")
	require.NoError(t, err)
	sql, _ := q.SQL("SELECT 1")
	assert.Contains(t, sql, "ORDER BY v.deadline DESC, v.pub_date ASC, v.seq ASC")

	_, err = parse(t, "ordering=salary")
	require.Error(t, err)
	assert.Equal(t, "ordering", apperr.As(err).Field)
}

func TestLimitOffsetBounds(t *testing.T) {
	q, err := parse(t, "limit=500&offset=-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)

	q, err = parse(t, "limit=10&offset=20")
	require.NoError(t, err)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)
}

func TestWhereComposesWithParsedConditions(t *testing.T) {
	q, err := parse(t, "vacancy_status=A")
	require.NoError(t, err)
	q.Where("v.author_id = ?", "u1")
	sql, args := q.SQL("SELECT 1")
	assert.Contains(t, sql, "WHERE v.vacancy_status = $1\n  AND v.author_id = $2")
	assert.Equal(t, "u1", args[1])
}

func TestRebindSkipsQuotedLiterals(t *testing.T) {
	assert.Equal(t, "SELECT '?' , $1, $2", Rebind("SELECT '?' , ?, ?"))
}
