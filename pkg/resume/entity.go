package resume

import (
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/patch"
	"github.com/artem13815/hr-crm/pkg/salary"
)

// WorkExperience: место работы. EndDate == nil значит «по настоящее время».
type WorkExperience struct {
	StartDate    *dateonly.Date `json:"start_date"`
	EndDate      *dateonly.Date `json:"end_date"`
	Position     string         `json:"position" validate:"required,max=50"`
	Organization string         `json:"organization" validate:"max=50"`
}

// Current reports an open-ended job.
func (w WorkExperience) Current() bool { return w.EndDate == nil }

type Education struct {
	Institution    string         `json:"educational_institution" validate:"required,max=250"`
	Faculty        string         `json:"faculty" validate:"max=100"`
	Specialization string         `json:"specialization" validate:"required,max=100"`
	Graduation     *dateonly.Date `json:"graduation"`
}

// Fields: всё, что соискатель заполняет сам.
type Fields struct {
	JobTitle        string           `json:"job_title" validate:"required,max=100"`
	EmploymentType  []string         `json:"employment_type" validate:"dive,choice=employment_type"`
	ScheduleWork    []string         `json:"schedule_work" validate:"dive,choice=schedule_work"`
	Salary          *salary.Pair     `json:"salary_expectations"`
	WorkingTrip     *bool            `json:"working_trip"`
	Phone           string           `json:"phone_number" validate:"required,max=16,phone"`
	Education       string           `json:"education" validate:"omitempty,choice=education"`
	Town            string           `json:"town" validate:"max=40"`
	Citizenship     string           `json:"citizenship" validate:"max=40"`
	Birthday        *dateonly.Date   `json:"bday"`
	Relocation      string           `json:"relocation" validate:"omitempty,choice=relocation"`
	Gender          string           `json:"gender" validate:"omitempty,choice=gender"`
	AboutMe         string           `json:"about_me" validate:"max=700"`
	CurrentCompany  string           `json:"current_company" validate:"max=50"`
	CurrentJob      string           `json:"current_job" validate:"max=50"`
	WorkExperiences []WorkExperience `json:"work_experiences" validate:"dive"`
	Educations      []Education      `json:"educations" validate:"dive"`
}

// Resume is an applicant's own CV.
type Resume struct {
	ID            uuid.UUID
	ApplicantID   uuid.UUID
	ApplicantName string
	Fields
	PubDate time.Time
}

type Patch struct {
	JobTitle        patch.Opt[string]           `json:"job_title"`
	EmploymentType  patch.Opt[[]string]         `json:"employment_type"`
	ScheduleWork    patch.Opt[[]string]         `json:"schedule_work"`
	Salary          patch.Opt[*salary.Pair]     `json:"salary_expectations"`
	WorkingTrip     patch.Opt[*bool]            `json:"working_trip"`
	Phone           patch.Opt[string]           `json:"phone_number"`
	Education       patch.Opt[string]           `json:"education"`
	Town            patch.Opt[string]           `json:"town"`
	Citizenship     patch.Opt[string]           `json:"citizenship"`
	Birthday        patch.Opt[*dateonly.Date]   `json:"bday"`
	Relocation      patch.Opt[string]           `json:"relocation"`
	Gender          patch.Opt[string]           `json:"gender"`
	AboutMe         patch.Opt[string]           `json:"about_me"`
	CurrentCompany  patch.Opt[string]           `json:"current_company"`
	CurrentJob      patch.Opt[string]           `json:"current_job"`
	WorkExperiences patch.Opt[[]WorkExperience] `json:"work_experiences"`
	Educations      patch.Opt[[]Education]      `json:"educations"`
}

// Apply overlays the sent fields; a sent list replaces the stored one whole.
func (p Patch) Apply(f *Fields) {
	p.JobTitle.Apply(&f.JobTitle)
	p.EmploymentType.Apply(&f.EmploymentType)
	p.ScheduleWork.Apply(&f.ScheduleWork)
	p.Salary.Apply(&f.Salary)
	p.WorkingTrip.Apply(&f.WorkingTrip)
	p.Phone.Apply(&f.Phone)
	p.Education.Apply(&f.Education)
	p.Town.Apply(&f.Town)
	p.Citizenship.Apply(&f.Citizenship)
	p.Birthday.Apply(&f.Birthday)
	p.Relocation.Apply(&f.Relocation)
	p.Gender.Apply(&f.Gender)
	p.AboutMe.Apply(&f.AboutMe)
	p.CurrentCompany.Apply(&f.CurrentCompany)
	p.CurrentJob.Apply(&f.CurrentJob)
	p.WorkExperiences.Apply(&f.WorkExperiences)
	p.Educations.Apply(&f.Educations)
}
