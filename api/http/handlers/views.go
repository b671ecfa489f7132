package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/company"
	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/display"
	"github.com/artem13815/hr-crm/pkg/event"
	"github.com/artem13815/hr-crm/pkg/funnel"
	"github.com/artem13815/hr-crm/pkg/note"
	"github.com/artem13815/hr-crm/pkg/resume"
	"github.com/artem13815/hr-crm/pkg/salary"
	"github.com/artem13815/hr-crm/pkg/vacancy"
)

// Views renders entities for clients: summaries for lists, details for
// single objects. Codes are resolved to labels here.
type Views struct {
	reg *choices.Registry
	now func() time.Time
}

func NewViews(reg *choices.Registry) *Views {
	return &Views{reg: reg, now: time.Now}
}

func (v *Views) table(name string) *choices.Table { return v.reg.Table(name) }

func (v *Views) labels(codes []string, table string) []string {
	out := display.Labels(codes, v.table(table))
	if out == nil {
		out = []string{}
	}
	return out
}

// ---- users

type UserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Role        auth.Role `json:"role"`
	IsAdmin     bool      `json:"is_admin"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

func (v *Views) User(u auth.User) UserView {
	return UserView{
		ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName,
		Role: u.Role, IsAdmin: u.IsAdmin, IsConfirmed: u.IsConfirmed, CreatedAt: u.CreatedAt,
	}
}

// ---- companies

type CompanySummary struct {
	ID             uuid.UUID `json:"id"`
	CompanyTitle   string    `json:"company_title"`
	CompanyAddress string    `json:"company_address"`
	Logo           string    `json:"logo"`
}

type CompanyDetail struct {
	ID uuid.UUID `json:"id"`
	company.Fields
	Logo      string    `json:"logo"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *Views) CompanySummary(c company.Company) CompanySummary {
	return CompanySummary{ID: c.ID, CompanyTitle: c.Title, CompanyAddress: c.Address, Logo: c.Logo}
}

func (v *Views) CompanyDetail(c company.Company) CompanyDetail {
	return CompanyDetail{ID: c.ID, Fields: c.Fields, Logo: c.Logo, CreatedAt: c.CreatedAt}
}

// ---- vacancies

type VacancySummary struct {
	ID                 uuid.UUID      `json:"id"`
	VacancyTitle       string         `json:"vacancy_title"`
	Company            string         `json:"company"`
	RequiredExperience *string        `json:"required_experience"`
	EmploymentType     []string       `json:"employment_type"`
	ScheduleWork       []string       `json:"schedule_work"`
	SalaryRange        *salary.View   `json:"salary_range"`
	City               string         `json:"city"`
	TechnologyStack    []string       `json:"technology_stack"`
	VacancyStatus      *string        `json:"vacancy_status"`
	Deadline           *dateonly.Date `json:"deadline"`
}

type VacancyDetail struct {
	VacancySummary
	CompanyID           uuid.UUID            `json:"company_id"`
	Address             string               `json:"address"`
	Education           *string              `json:"education"`
	JobConditions       string               `json:"job_conditions"`
	JobResponsibilities string               `json:"job_responsibilities"`
	SkillStack          []vacancy.SkillStack `json:"skill_stack"`
	Author              *string              `json:"author"`
	PubDate             string               `json:"pub_date"`
}

func (v *Views) VacancySummary(x vacancy.Vacancy) VacancySummary {
	stack := make([]string, 0, len(x.SkillStack))
	for _, s := range x.SkillStack {
		stack = append(stack, s.Skill)
	}
	return VacancySummary{
		ID:                 x.ID,
		VacancyTitle:       x.Title,
		Company:            x.CompanyTitle,
		RequiredExperience: display.Label(x.RequiredExperience, v.table(choices.Experience)),
		EmploymentType:     v.labels(x.EmploymentType, choices.EmploymentType),
		ScheduleWork:       v.labels(x.ScheduleWork, choices.ScheduleWork),
		SalaryRange:        display.SalaryView(x.Salary),
		City:               x.City,
		TechnologyStack:    stack,
		VacancyStatus:      display.Label(x.Status, v.table(choices.VacancyStatus)),
		Deadline:           x.Deadline,
	}
}

func (v *Views) VacancyDetail(x vacancy.Vacancy) VacancyDetail {
	d := VacancyDetail{
		VacancySummary:      v.VacancySummary(x),
		CompanyID:           x.CompanyID,
		Address:             x.Address,
		Education:           display.Label(x.Education, v.table(choices.Education)),
		JobConditions:       x.JobConditions,
		JobResponsibilities: x.JobResponsibilities,
		SkillStack:          x.SkillStack,
		PubDate:             display.Date(x.PubDate),
	}
	if d.SkillStack == nil {
		d.SkillStack = []vacancy.SkillStack{}
	}
	if x.AuthorName != "" {
		name := x.AuthorName
		d.Author = &name
	}
	return d
}

// ---- candidates

type CandidateSummary struct {
	ID                 uuid.UUID    `json:"id"`
	Vacancy            uuid.UUID    `json:"vacancy"`
	FirstName          string       `json:"first_name"`
	LastName           string       `json:"last_name"`
	Patronymic         string       `json:"patronymic"`
	Age                *int         `json:"age"`
	City               string       `json:"city"`
	CurPosition        string       `json:"cur_position"`
	SalaryExpectations *salary.View `json:"salary_expectations"`
	CandidateStatus    *string      `json:"candidate_status"`
	InterviewStatus    *string      `json:"interview_status"`
	CustomStatus       *string      `json:"custom_status"`
	Photo              string       `json:"photo"`
	PubDate            string       `json:"pub_date"`
}

type CandidateDetail struct {
	CandidateSummary
	Bday            *dateonly.Date `json:"bday"`
	LastJob         string         `json:"last_job"`
	PhoneNumber     string         `json:"phone_number"`
	Email           string         `json:"email"`
	Telegram        string         `json:"telegram"`
	Portfolio       string         `json:"portfolio"`
	EmploymentType  []string       `json:"employment_type"`
	ScheduleWork    []string       `json:"schedule_work"`
	WorkExperiences *string        `json:"work_experiences"`
	Education       *string        `json:"education"`
	Gender          *string        `json:"gender"`
	Resume          string         `json:"resume"`
}

func (v *Views) CandidateSummary(c candidate.Candidate) CandidateSummary {
	s := CandidateSummary{
		ID:                 c.ID,
		Vacancy:            c.VacancyID,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Patronymic:         c.Patronymic,
		Age:                display.AgePtr(dateonly.Time(c.Birthday), v.now()),
		City:               c.City,
		CurPosition:        c.CurPosition,
		SalaryExpectations: display.SalaryView(c.Salary),
		CandidateStatus:    display.Label(c.CandidateStatus, v.table(choices.CandidateStatus)),
		Photo:              c.Photo,
		PubDate:            display.Date(c.PubDate),
	}
	if code, ok := c.Status.Stage(); ok {
		s.InterviewStatus = display.Label(code, v.table(choices.InterviewStatus))
	}
	if text, ok := c.Status.Custom(); ok {
		s.CustomStatus = &text
	}
	return s
}

func (v *Views) CandidateDetail(c candidate.Candidate) CandidateDetail {
	return CandidateDetail{
		CandidateSummary: v.CandidateSummary(c),
		Bday:             c.Birthday,
		LastJob:          c.LastJob,
		PhoneNumber:      c.Phone,
		Email:            c.Email,
		Telegram:         c.Telegram,
		Portfolio:        c.Portfolio,
		EmploymentType:   v.labels(c.EmploymentType, choices.EmploymentType),
		ScheduleWork:     v.labels(c.ScheduleWork, choices.ScheduleWork),
		WorkExperiences:  display.Label(c.Experience, v.table(choices.Experience)),
		Education:        display.Label(c.Education, v.table(choices.Education)),
		Gender:           display.Label(c.Gender, v.table(choices.Gender)),
		Resume:           c.Resume,
	}
}

// ---- funnel

type SubStageView struct {
	ID            uuid.UUID      `json:"id"`
	Stage         uuid.UUID      `json:"stage"`
	Name          string         `json:"name"`
	Date          *dateonly.Date `json:"date"`
	Status        string         `json:"status"`
	StatusDisplay *string        `json:"status_display"`
}

type StageView struct {
	ID            uuid.UUID      `json:"id"`
	Candidate     uuid.UUID      `json:"candidate"`
	Name          string         `json:"name"`
	Date          *dateonly.Date `json:"date"`
	Status        string         `json:"status"`
	StatusDisplay *string        `json:"status_display"`
	SubStages     []SubStageView `json:"substage"`
}

func (v *Views) SubStage(s funnel.SubStage) SubStageView {
	return SubStageView{
		ID: s.ID, Stage: s.StageID, Name: s.Name, Date: s.Date, Status: s.Status,
		StatusDisplay: display.Label(s.Status, v.table(choices.FunnelStatus)),
	}
}

func (v *Views) Stage(s funnel.Stage) StageView {
	out := StageView{
		ID: s.ID, Candidate: s.CandidateID, Name: s.Name, Date: s.Date, Status: s.Status,
		StatusDisplay: display.Label(s.Status, v.table(choices.FunnelStatus)),
		SubStages:     make([]SubStageView, 0, len(s.SubStages)),
	}
	for _, sub := range s.SubStages {
		out.SubStages = append(out.SubStages, v.SubStage(sub))
	}
	return out
}

// ---- notes

type NoteView struct {
	ID        uuid.UUID `json:"id"`
	Candidate uuid.UUID `json:"candidate"`
	Author    string    `json:"author"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	PubDate   time.Time `json:"pub_date"`
}

type CommentView struct {
	ID       uuid.UUID `json:"id"`
	Note     uuid.UUID `json:"note"`
	Author   string    `json:"author"`
	AuthorID uuid.UUID `json:"author_id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

func (v *Views) Note(n note.Note) NoteView {
	return NoteView{ID: n.ID, Candidate: n.CandidateID, Author: n.AuthorName, AuthorID: n.AuthorID, Text: n.Text, PubDate: n.PubDate}
}

func (v *Views) Comment(c note.Comment) CommentView {
	return CommentView{ID: c.ID, Note: c.NoteID, Author: c.AuthorName, AuthorID: c.AuthorID, Text: c.Text, PubDate: c.PubDate}
}

// ---- events

type EventView struct {
	ID        uuid.UUID `json:"id"`
	Candidate uuid.UUID `json:"candidate"`
	event.Fields
}

func (v *Views) Event(e event.Event) EventView {
	return EventView{ID: e.ID, Candidate: e.CandidateID, Fields: e.Fields}
}

// ---- resumes

type WorkExperienceView struct {
	resume.WorkExperience
	Experience string `json:"experience"`
}

type ResumeSummary struct {
	ID              uuid.UUID            `json:"id"`
	Applicant       string               `json:"applicant"`
	JobTitle        string               `json:"job_title"`
	WorkExperiences []WorkExperienceView `json:"work_experiences"`
	CurrentCompany  string               `json:"current_company"`
	PubDate         string               `json:"pub_date"`
}

type ResumeDetail struct {
	ResumeSummary
	ApplicantID        uuid.UUID          `json:"applicant_id"`
	EmploymentType     []string           `json:"employment_type"`
	ScheduleWork       []string           `json:"schedule_work"`
	SalaryExpectations *salary.View       `json:"salary_expectations"`
	WorkingTrip        *bool              `json:"working_trip"`
	PhoneNumber        string             `json:"phone_number"`
	Education          *string            `json:"education"`
	Town               string             `json:"town"`
	Citizenship        string             `json:"citizenship"`
	Bday               *dateonly.Date     `json:"bday"`
	Age                *int               `json:"age"`
	Relocation         *string            `json:"relocation"`
	Gender             *string            `json:"gender"`
	AboutMe            string             `json:"about_me"`
	CurrentJob         string             `json:"current_job"`
	Educations         []resume.Education `json:"educations"`
}

func (v *Views) ResumeSummary(r resume.Resume) ResumeSummary {
	today := v.now()
	exp := make([]WorkExperienceView, 0, len(r.WorkExperiences))
	for _, w := range r.WorkExperiences {
		wv := WorkExperienceView{WorkExperience: w}
		if w.StartDate != nil {
			wv.Experience = display.ExperienceLength(w.StartDate.Time, dateonly.Time(w.EndDate), today)
		}
		exp = append(exp, wv)
	}
	return ResumeSummary{
		ID:              r.ID,
		Applicant:       r.ApplicantName,
		JobTitle:        r.JobTitle,
		WorkExperiences: exp,
		CurrentCompany:  r.CurrentCompany,
		PubDate:         display.Date(r.PubDate),
	}
}

func (v *Views) ResumeDetail(r resume.Resume) ResumeDetail {
	d := ResumeDetail{
		ResumeSummary:      v.ResumeSummary(r),
		ApplicantID:        r.ApplicantID,
		EmploymentType:     v.labels(r.EmploymentType, choices.EmploymentType),
		ScheduleWork:       v.labels(r.ScheduleWork, choices.ScheduleWork),
		SalaryExpectations: display.SalaryView(r.Salary),
		WorkingTrip:        r.WorkingTrip,
		PhoneNumber:        r.Phone,
		Education:          display.Label(r.Education, v.table(choices.Education)),
		Town:               r.Town,
		Citizenship:        r.Citizenship,
		Bday:               r.Birthday,
		Age:                display.AgePtr(dateonly.Time(r.Birthday), v.now()),
		Relocation:         display.Label(r.Relocation, v.table(choices.Relocation)),
		Gender:             display.Label(r.Gender, v.table(choices.Gender)),
		AboutMe:            r.AboutMe,
		CurrentJob:         r.CurrentJob,
		Educations:         r.Educations,
	}
	if d.Educations == nil {
		d.Educations = []resume.Education{}
	}
	return d
}

// mapSlice renders a list with one of the view functions.
func mapSlice[T, V any](items []T, f func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}
