package candidate

import (
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/patch"
	"github.com/artem13815/hr-crm/pkg/salary"
)

// DefaultCandidateStatus is assigned when a candidate is added.
const DefaultCandidateStatus = "N"

// Fields are the client-writable attributes of a candidate apart from the
// interview status and the files.
type Fields struct {
	FirstName       string         `json:"first_name" validate:"required,min=2,max=40"`
	LastName        string         `json:"last_name" validate:"required,min=2,max=50"`
	Patronymic      string         `json:"patronymic" validate:"omitempty,min=2,max=50"`
	Birthday        *dateonly.Date `json:"bday"`
	City            string         `json:"city" validate:"required,min=2,max=40"`
	LastJob         string         `json:"last_job" validate:"omitempty,min=2,max=90"`
	CurPosition     string         `json:"cur_position" validate:"omitempty,min=2,max=50"`
	Salary          *salary.Pair   `json:"salary_expectations"`
	Phone           string         `json:"phone_number" validate:"required,phone"`
	Email           string         `json:"email" validate:"required,min=2,max=256,email,email_strict"`
	Telegram        string         `json:"telegram" validate:"omitempty,max=150,telegram"`
	Portfolio       string         `json:"portfolio" validate:"omitempty,url,max=255"`
	EmploymentType  []string       `json:"employment_type" validate:"dive,choice=employment_type"`
	ScheduleWork    []string       `json:"schedule_work" validate:"dive,choice=schedule_work"`
	Experience      string         `json:"work_experiences" validate:"omitempty,choice=experience"`
	Education       string         `json:"education" validate:"omitempty,choice=education"`
	Gender          string         `json:"gender" validate:"omitempty,choice=gender"`
	CandidateStatus string         `json:"candidate_status" validate:"omitempty,choice=candidate_status"`
}

// Input is the create/replace payload.
type Input struct {
	Fields
	InterviewStatus string `json:"interview_status"`
	CustomStatus    string `json:"custom_status"`
	// Resume may carry an inline PDF as data:application/pdf;base64,...
	Resume string `json:"resume"`
}

type Candidate struct {
	ID        uuid.UUID
	VacancyID uuid.UUID
	Fields
	Status Status

	Resume     string
	ResumeText string
	Photo      string
	PubDate    time.Time
}

type Patch struct {
	FirstName       patch.Opt[string]         `json:"first_name"`
	LastName        patch.Opt[string]         `json:"last_name"`
	Patronymic      patch.Opt[string]         `json:"patronymic"`
	Birthday        patch.Opt[*dateonly.Date] `json:"bday"`
	City            patch.Opt[string]         `json:"city"`
	LastJob         patch.Opt[string]         `json:"last_job"`
	CurPosition     patch.Opt[string]         `json:"cur_position"`
	Salary          patch.Opt[*salary.Pair]   `json:"salary_expectations"`
	Phone           patch.Opt[string]         `json:"phone_number"`
	Email           patch.Opt[string]         `json:"email"`
	Telegram        patch.Opt[string]         `json:"telegram"`
	Portfolio       patch.Opt[string]         `json:"portfolio"`
	EmploymentType  patch.Opt[[]string]       `json:"employment_type"`
	ScheduleWork    patch.Opt[[]string]       `json:"schedule_work"`
	Experience      patch.Opt[string]         `json:"work_experiences"`
	Education       patch.Opt[string]         `json:"education"`
	Gender          patch.Opt[string]         `json:"gender"`
	CandidateStatus patch.Opt[string]         `json:"candidate_status"`
	InterviewStatus patch.Opt[string]         `json:"interview_status"`
	CustomStatus    patch.Opt[string]         `json:"custom_status"`
	Resume          patch.Opt[string]         `json:"resume"`
}

func (p Patch) Apply(f *Fields) {
	p.FirstName.Apply(&f.FirstName)
	p.LastName.Apply(&f.LastName)
	p.Patronymic.Apply(&f.Patronymic)
	p.Birthday.Apply(&f.Birthday)
	p.City.Apply(&f.City)
	p.LastJob.Apply(&f.LastJob)
	p.CurPosition.Apply(&f.CurPosition)
	p.Salary.Apply(&f.Salary)
	p.Phone.Apply(&f.Phone)
	p.Email.Apply(&f.Email)
	p.Telegram.Apply(&f.Telegram)
	p.Portfolio.Apply(&f.Portfolio)
	p.EmploymentType.Apply(&f.EmploymentType)
	p.ScheduleWork.Apply(&f.ScheduleWork)
	p.Experience.Apply(&f.Experience)
	p.Education.Apply(&f.Education)
	p.Gender.Apply(&f.Gender)
	p.CandidateStatus.Apply(&f.CandidateStatus)
}

// mergeStatus overlays the sent status fields on the stored pair before the
// exclusivity check.
func (p Patch) mergeStatus(current Status) (interview, custom string) {
	interview, custom = current.Columns()
	p.InterviewStatus.Apply(&interview)
	p.CustomStatus.Apply(&custom)
	return interview, custom
}
