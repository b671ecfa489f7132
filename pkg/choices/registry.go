// Package choices holds the code→label vocabularies shared by validation,
// filtering and display.
package choices

import (
	_ "embed"
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v4"
)

// Table names.
const (
	EmploymentType  = "employment_type"
	ScheduleWork    = "schedule_work"
	Education       = "education"
	Experience      = "experience"
	VacancyStatus   = "vacancy_status"
	CandidateStatus = "candidate_status"
	InterviewStatus = "interview_status"
	FunnelStatus    = "funnel_status"
	Gender          = "gender"
	Relocation      = "relocation"
)

var required = []string{
	EmploymentType, ScheduleWork, Education, Experience, VacancyStatus,
	CandidateStatus, InterviewStatus, FunnelStatus, Gender, Relocation,
}

//go:embed choices.yaml
var embedded []byte

type Entry struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

type Table struct {
	Name    string
	Entries []Entry
	index   map[string]int
}

type Registry struct {
	Version int
	tables  map[string]*Table
}

type document struct {
	Version int                `yaml:"version"`
	Tables  map[string][]Entry `yaml:"tables"`
}

// Default parses the registry compiled into the binary.
func Default() *Registry {
	r, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("choices: embedded registry: %v", err))
	}
	return r
}

// Load reads a registry from path, or returns the embedded one when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read choices file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode choices: %w", err)
	}
	r := &Registry{Version: doc.Version, tables: make(map[string]*Table, len(doc.Tables))}
	for name, entries := range doc.Tables {
		t, err := NewTable(name, entries)
		if err != nil {
			return nil, err
		}
		r.tables[name] = t
	}
	for _, name := range required {
		if _, ok := r.tables[name]; !ok {
			return nil, fmt.Errorf("choices: table %q is missing", name)
		}
	}
	return r, nil
}

func NewTable(name string, entries []Entry) (*Table, error) {
	t := &Table{Name: name, Entries: entries, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		if e.Code == "" {
			return nil, fmt.Errorf("choices: %s: empty code at position %d", name, i)
		}
		if _, dup := t.index[e.Code]; dup {
			return nil, fmt.Errorf("choices: %s: duplicate code %q", name, e.Code)
		}
		t.index[e.Code] = i
	}
	return t, nil
}

// Table returns the named table; unknown names yield an empty table.
func (r *Registry) Table(name string) *Table {
	if t, ok := r.tables[name]; ok {
		return t
	}
	return &Table{Name: name, index: map[string]int{}}
}

func (t *Table) Has(code string) bool {
	_, ok := t.index[code]
	return ok
}

// Label returns "" for codes outside the table.
func (t *Table) Label(code string) string {
	if i, ok := t.index[code]; ok {
		return t.Entries[i].Label
	}
	return ""
}

// Labels maps codes positionally; nil or empty input gives nil.
func (t *Table) Labels(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = t.Label(c)
	}
	return out
}

func (t *Table) Codes() []string {
	out := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Code
	}
	return out
}

// Position is the zero-based rank of code in the table, -1 if absent.
func (t *Table) Position(code string) int {
	if i, ok := t.index[code]; ok {
		return i
	}
	return -1
}

// Dedup drops repeated codes keeping the first occurrence.
func Dedup(codes []string) []string {
	if codes == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
