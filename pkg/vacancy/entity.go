package vacancy

import (
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/patch"
	"github.com/artem13815/hr-crm/pkg/salary"
)

// DeadlineDays is the default time a vacancy stays open.
const DeadlineDays = 30

// Author is the recruiter who created a vacancy. The zero value means the
// account was removed: such a vacancy belongs to no one.
type Author struct {
	id  uuid.UUID
	set bool
}

func AuthoredBy(id uuid.UUID) Author { return Author{id: id, set: id != uuid.Nil} }

// AuthorFromPtr maps a nullable author column.
func AuthorFromPtr(id *uuid.UUID) Author {
	if id == nil {
		return Author{}
	}
	return AuthoredBy(*id)
}

func (a Author) ID() (uuid.UUID, bool) { return a.id, a.set }

// Is never matches a removed author.
func (a Author) Is(user uuid.UUID) bool { return a.set && a.id == user }

func (a Author) Ptr() *uuid.UUID {
	if !a.set {
		return nil
	}
	id := a.id
	return &id
}

// SkillStack pairs a skill with the years of experience required in it.
type SkillStack struct {
	Skill      string `json:"skill" validate:"required,max=100"`
	Experience int    `json:"experience" validate:"gte=0,lte=50"`
}

// Fields are the client-writable attributes of a vacancy.
type Fields struct {
	Title               string         `json:"vacancy_title" validate:"required,min=2,max=100"`
	CompanyID           uuid.UUID      `json:"company"`
	RequiredExperience  string         `json:"required_experience" validate:"omitempty,choice=experience"`
	EmploymentType      []string       `json:"employment_type" validate:"dive,choice=employment_type"`
	ScheduleWork        []string       `json:"schedule_work" validate:"dive,choice=schedule_work"`
	Salary              *salary.Pair   `json:"salary_range"`
	City                string         `json:"city" validate:"required,max=40"`
	Address             string         `json:"address" validate:"max=255"`
	Education           string         `json:"education" validate:"omitempty,choice=education"`
	JobConditions       string         `json:"job_conditions" validate:"max=1400"`
	JobResponsibilities string         `json:"job_responsibilities" validate:"max=1400"`
	SkillStack          []SkillStack   `json:"skill_stack" validate:"dive"`
	Status              string         `json:"vacancy_status" validate:"required,choice=vacancy_status"`
	Deadline            *dateonly.Date `json:"deadline"`
}

type Vacancy struct {
	ID uuid.UUID
	Fields
	Author  Author
	PubDate time.Time

	// read side
	CompanyTitle string
	AuthorName   string
}

type Patch struct {
	Title               patch.Opt[string]         `json:"vacancy_title"`
	CompanyID           patch.Opt[uuid.UUID]      `json:"company"`
	RequiredExperience  patch.Opt[string]         `json:"required_experience"`
	EmploymentType      patch.Opt[[]string]       `json:"employment_type"`
	ScheduleWork        patch.Opt[[]string]       `json:"schedule_work"`
	Salary              patch.Opt[*salary.Pair]   `json:"salary_range"`
	City                patch.Opt[string]         `json:"city"`
	Address             patch.Opt[string]         `json:"address"`
	Education           patch.Opt[string]         `json:"education"`
	JobConditions       patch.Opt[string]         `json:"job_conditions"`
	JobResponsibilities patch.Opt[string]         `json:"job_responsibilities"`
	SkillStack          patch.Opt[[]SkillStack]   `json:"skill_stack"`
	Status              patch.Opt[string]         `json:"vacancy_status"`
	Deadline            patch.Opt[*dateonly.Date] `json:"deadline"`
}

func (p Patch) Apply(f *Fields) {
	p.Title.Apply(&f.Title)
	p.CompanyID.Apply(&f.CompanyID)
	p.RequiredExperience.Apply(&f.RequiredExperience)
	p.EmploymentType.Apply(&f.EmploymentType)
	p.ScheduleWork.Apply(&f.ScheduleWork)
	p.Salary.Apply(&f.Salary)
	p.City.Apply(&f.City)
	p.Address.Apply(&f.Address)
	p.Education.Apply(&f.Education)
	p.JobConditions.Apply(&f.JobConditions)
	p.JobResponsibilities.Apply(&f.JobResponsibilities)
	p.SkillStack.Apply(&f.SkillStack)
	p.Status.Apply(&f.Status)
	p.Deadline.Apply(&f.Deadline)
}
