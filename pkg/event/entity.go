package event

import (
	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/patch"
)

// TimeLayout is the wall-clock format of start_time/end_time.
const TimeLayout = "15:04"

type Fields struct {
	Title          string         `json:"title" validate:"required,max=255"`
	StartDate      *dateonly.Date `json:"start_date"`
	EndDate        *dateonly.Date `json:"end_date"`
	StartTime      string         `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime        string         `json:"end_time" validate:"omitempty,datetime=15:04"`
	Description    string         `json:"description" validate:"max=5000"`
	ConferenceLink string         `json:"conference_link" validate:"omitempty,url,max=255"`
}

// Event is a calendar entry (interview, call) tied to a candidate.
type Event struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	Fields
}

type Patch struct {
	Title          patch.Opt[string]         `json:"title"`
	StartDate      patch.Opt[*dateonly.Date] `json:"start_date"`
	EndDate        patch.Opt[*dateonly.Date] `json:"end_date"`
	StartTime      patch.Opt[string]         `json:"start_time"`
	EndTime        patch.Opt[string]         `json:"end_time"`
	Description    patch.Opt[string]         `json:"description"`
	ConferenceLink patch.Opt[string]         `json:"conference_link"`
}

func (p Patch) Apply(f *Fields) {
	p.Title.Apply(&f.Title)
	p.StartDate.Apply(&f.StartDate)
	p.EndDate.Apply(&f.EndDate)
	p.StartTime.Apply(&f.StartTime)
	p.EndTime.Apply(&f.EndTime)
	p.Description.Apply(&f.Description)
	p.ConferenceLink.Apply(&f.ConferenceLink)
}
