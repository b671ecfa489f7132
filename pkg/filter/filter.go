// Package filter turns list query parameters into SQL predicates, ordering
// and pagination for a resource.
package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
)

type Kind int

const (
	// MultiChoice matches when the stored code set intersects the requested codes.
	MultiChoice Kind = iota
	// Range takes "min,max" and keeps records whose [min,max] array lies inside it.
	Range
	// Choice is an exact match on one registry code.
	Choice
	// Exact is a case-insensitive equality on free text.
	Exact
	Bool
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Field struct {
	Param  string
	Column string
	Kind   Kind
	Table  string
}

type Spec struct {
	Fields []Field
	// Search holds column expressions matched with ILIKE; an expression that
	// contains "?" is used verbatim with the pattern bound to it.
	Search []string
	// Expand returns alternative spellings of a search term.
	Expand func(term string) []string
	// Ordering maps public keys to column expressions.
	Ordering     map[string]string
	DefaultOrder []string
	TieBreak     string
}

type Query struct {
	conds  []string
	args   []any
	order  []string
	Limit  int
	Offset int
}

// Where adds a predicate written with ? placeholders.
func (q *Query) Where(cond string, args ...any) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

// Parse validates params against spec.
func Parse(spec Spec, reg *choices.Registry, params url.Values) (*Query, error) {
	q := &Query{Limit: DefaultLimit}
	for _, f := range spec.Fields {
		var raw []string
		switch f.Kind {
		case Range:
			raw = rangeParts(params.Get(f.Param))
		case Exact, Bool:
			if v := strings.TrimSpace(params.Get(f.Param)); v != "" {
				raw = []string{v}
			}
		default:
			raw = values(params, f.Param)
		}
		if len(raw) == 0 {
			continue
		}
		if err := q.applyField(f, reg, raw); err != nil {
			return nil, err
		}
	}
	if term := strings.TrimSpace(params.Get("search")); term != "" && len(spec.Search) > 0 {
		q.applySearch(spec, term)
	}
	if err := q.applyOrdering(spec, params.Get("ordering")); err != nil {
		return nil, err
	}
	q.Limit, q.Offset = limitOffset(params)
	return q, nil
}

func (q *Query) applyField(f Field, reg *choices.Registry, raw []string) error {
	switch f.Kind {
	case MultiChoice:
		table := reg.Table(f.Table)
		for _, code := range raw {
			if !table.Has(code) {
				return apperr.Validation(f.Param, fmt.Sprintf("Выберите корректный вариант. %s нет среди допустимых значений.", code))
			}
		}
		q.Where(f.Column+" && ?::text[]", choices.Dedup(raw))
	case Choice:
		if len(raw) > 1 {
			return apperr.Validation(f.Param, "Допускается только одно значение.")
		}
		code := raw[0]
		if !reg.Table(f.Table).Has(code) {
			return apperr.Validation(f.Param, fmt.Sprintf("Выберите корректный вариант. %s нет среди допустимых значений.", code))
		}
		q.Where(f.Column+" = ?", code)
	case Range:
		lo, hi, err := parseRange(raw)
		if err != nil {
			return apperr.Validation(f.Param, err.Error())
		}
		if lo != nil {
			q.Where(f.Column+"[1] >= ?", *lo)
		}
		if hi != nil {
			q.Where(f.Column+"[2] <= ?", *hi)
		}
	case Exact:
		q.Where("lower("+f.Column+") = lower(?)", raw[0])
	case Bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return apperr.Validation(f.Param, "Ожидается true или false.")
		}
		q.Where(f.Column+" = ?", b)
	}
	return nil
}

// applySearch requires every term to hit at least one searchable column.
func (q *Query) applySearch(spec Spec, term string) {
	for _, word := range strings.Fields(term) {
		variants := []string{word}
		if spec.Expand != nil {
			if ex := spec.Expand(word); len(ex) > 0 {
				variants = ex
			}
		}
		var ors []string
		var args []any
		for _, v := range variants {
			pattern := "%" + escapeLike(v) + "%"
			for _, col := range spec.Search {
				if strings.Contains(col, "?") {
					ors = append(ors, col)
				} else {
					ors = append(ors, col+" ILIKE ?")
				}
				args = append(args, pattern)
			}
		}
		q.Where("("+strings.Join(ors, " OR ")+")", args...)
	}
}

func (q *Query) applyOrdering(spec Spec, raw string) error {
	keys := spec.DefaultOrder
	if strings.TrimSpace(raw) != "" {
		keys = nil
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	for _, k := range keys {
		dir := "ASC"
		name := k
		if strings.HasPrefix(k, "-") {
			dir = "DESC"
			name = k[1:]
		}
		col, ok := spec.Ordering[name]
		if !ok {
			return apperr.Validation("ordering", fmt.Sprintf("Сортировка по полю %q недоступна.", name))
		}
		q.order = append(q.order, col+" "+dir)
	}
	if spec.TieBreak != "" {
		q.order = append(q.order, spec.TieBreak+" ASC")
	}
	return nil
}

// SQL appends WHERE, ORDER BY and LIMIT/OFFSET to base and rewrites ?
// placeholders to $n.
func (q *Query) SQL(base string) (string, []any) {
	var b strings.Builder
	b.WriteString(base)
	if len(q.conds) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(q.conds, "\n  AND "))
	}
	if len(q.order) > 0 {
		b.WriteString("\nORDER BY ")
		b.WriteString(strings.Join(q.order, ", "))
	}
	args := append([]any{}, q.args...)
	if q.Limit > 0 {
		b.WriteString("\nLIMIT ? OFFSET ?")
		args = append(args, q.Limit, q.Offset)
	}
	return Rebind(b.String()), args
}

// Rebind replaces ? with $1, $2, ... outside of quoted literals.
func Rebind(query string) string {
	var b strings.Builder
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteString("$" + strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// values collects repeated and comma-separated params.
func values(params url.Values, key string) []string {
	var out []string
	for _, v := range params[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// rangeParts keeps empty sides so ",150" means "up to 150".
func rangeParts(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseRange(raw []string) (lo, hi *int, err error) {
	if len(raw) > 2 {
		return nil, nil, fmt.Errorf("ожидается пара значений через запятую")
	}
	parse := func(s string) (*int, error) {
		if s == "" || s == "*" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q не является числом", s)
		}
		return &n, nil
	}
	if lo, err = parse(raw[0]); err != nil {
		return nil, nil, err
	}
	if len(raw) == 2 {
		if hi, err = parse(raw[1]); err != nil {
			return nil, nil, err
		}
	}
	if lo != nil && hi != nil && *lo > *hi {
		return nil, nil, fmt.Errorf("нижняя граница больше верхней")
	}
	return lo, hi, nil
}

func limitOffset(params url.Values) (limit, offset int) {
	limit = DefaultLimit
	if v := strings.TrimSpace(params.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxLimit {
			limit = n
		}
	}
	if v := strings.TrimSpace(params.Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
