package funnel

import (
	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/patch"
)

// DefaultStatus is "created".
const DefaultStatus = "1"

// Fields are shared by stages and sub-stages.
type Fields struct {
	Name   string         `json:"name" validate:"required,max=100"`
	Date   *dateonly.Date `json:"date"`
	Status string         `json:"status" validate:"omitempty,choice=funnel_status"`
}

type SubStage struct {
	ID      uuid.UUID
	StageID uuid.UUID
	Fields
}

// Stage is one step of a candidate's funnel.
type Stage struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	Fields
	SubStages []SubStage
}

// StageInput creates a stage together with its sub-stages.
type StageInput struct {
	Fields
	SubStages []Fields `json:"substage"`
}

type Patch struct {
	Name   patch.Opt[string]         `json:"name"`
	Date   patch.Opt[*dateonly.Date] `json:"date"`
	Status patch.Opt[string]         `json:"status"`
}

func (p Patch) Apply(f *Fields) {
	p.Name.Apply(&f.Name)
	p.Date.Apply(&f.Date)
	p.Status.Apply(&f.Status)
}
