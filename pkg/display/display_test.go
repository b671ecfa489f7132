package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/salary"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeBirthdayBoundary(t *testing.T) {
	birth := day(1990, 6, 15)
	assert.Equal(t, 33, Age(birth, day(2024, 6, 14)))
	assert.Equal(t, 34, Age(birth, day(2024, 6, 15)))
	assert.Equal(t, 34, Age(birth, day(2024, 12, 31)))
	assert.Equal(t, 33, Age(birth, day(2024, 1, 1)))
	assert.Nil(t, AgePtr(nil, day(2024, 1, 1)))
}

func TestExperienceLength(t *testing.T) {
	start := day(2020, 1, 1)
	cases := []struct {
		name string
		end  time.Time
		want string
	}{
		{"same day", day(2020, 1, 1), "меньше месяца"},
		{"29 days", day(2020, 1, 30), "меньше месяца"},
		{"one month", day(2020, 1, 31), "1 месяц"},
		{"five months", day(2020, 6, 1), "5 месяцев"},
		// 366 days -> 12 months
		{"leap year", day(2021, 1, 1), "1 год"},
		// 1096 days -> 36 months
		{"three years", day(2023, 1, 1), "3 года"},
		// 425 days -> 14 months
		{"year and two months", day(2021, 3, 1), "1 год 2 месяца"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			end := tc.end
			assert.Equal(t, tc.want, ExperienceLength(start, &end, day(2030, 1, 1)))
		})
	}
}

func TestExperienceLengthOpenEnded(t *testing.T) {
	assert.Equal(t, "2 месяца", ExperienceLength(day(2024, 1, 1), nil, day(2024, 3, 5)))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "лет", plural(11, "год", "года", "лет"))
	assert.Equal(t, "год", plural(21, "год", "года", "лет"))
	assert.Equal(t, "года", plural(22, "год", "года", "лет"))
	assert.Equal(t, "лет", plural(25, "год", "года", "лет"))
}

func TestLabelsAndSalary(t *testing.T) {
	tbl := choices.Default().Table(choices.EmploymentType)
	assert.Equal(t, []string{"Частичная", "Полная"}, Labels([]string{"CH", "PO"}, tbl))
	assert.Nil(t, Labels(nil, tbl))
	assert.Nil(t, Label("", tbl))
	assert.Equal(t, "Полная", *Label("PO", tbl))

	assert.Equal(t, &salary.View{Min: 100, Max: 150}, SalaryView(&salary.Pair{Min: 100, Max: 150}))
	assert.Nil(t, SalaryView(nil))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "2024-02-29", Date(time.Date(2024, 2, 29, 23, 10, 0, 0, time.UTC)))
}
