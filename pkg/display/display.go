// Package display turns stored values into what clients render.
package display

import (
	"fmt"
	"time"

	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/salary"
)

const dateLayout = "2006-01-02"

// Labels resolves codes against a registry table; nil stays nil.
func Labels(codes []string, t *choices.Table) []string {
	return t.Labels(codes)
}

// Label resolves a single code; an empty code gives nil.
func Label(code string, t *choices.Table) *string {
	if code == "" {
		return nil
	}
	l := t.Label(code)
	return &l
}

func SalaryView(p *salary.Pair) *salary.View {
	return p.View()
}

// Age in full years at ref.
func Age(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}

// AgePtr is Age for optional birth dates.
func AgePtr(birth *time.Time, ref time.Time) *int {
	if birth == nil {
		return nil
	}
	a := Age(*birth, ref)
	return &a
}

// ExperienceLength counts whole 30-day months between start and end
// (today when end is nil) and renders them as years and months.
func ExperienceLength(start time.Time, end *time.Time, today time.Time) string {
	to := today
	if end != nil {
		to = *end
	}
	days := int(truncDay(to).Sub(truncDay(start)).Hours() / 24)
	if days < 0 {
		days = 0
	}
	months := days / 30
	years := months / 12
	rest := months % 12

	switch {
	case years == 0 && rest == 0:
		return "меньше месяца"
	case years == 0:
		return fmt.Sprintf("%d %s", rest, plural(rest, "месяц", "месяца", "месяцев"))
	case rest == 0:
		return fmt.Sprintf("%d %s", years, plural(years, "год", "года", "лет"))
	default:
		return fmt.Sprintf("%d %s %d %s",
			years, plural(years, "год", "года", "лет"),
			rest, plural(rest, "месяц", "месяца", "месяцев"))
	}
}

func Date(t time.Time) string { return t.Format(dateLayout) }

func truncDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func plural(n int, one, few, many string) string {
	n %= 100
	if n >= 11 && n <= 14 {
		return many
	}
	switch n % 10 {
	case 1:
		return one
	case 2, 3, 4:
		return few
	default:
		return many
	}
}
