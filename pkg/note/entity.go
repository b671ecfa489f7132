package note

import (
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/patch"
)

// Fields is the only client-writable part of notes and comments.
type Fields struct {
	Text string `json:"text" validate:"required,max=10000"`
}

// Note is a recruiter's remark about a candidate.
type Note struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	AuthorID    uuid.UUID
	AuthorName  string
	Fields
	PubDate time.Time
}

type Comment struct {
	ID         uuid.UUID
	NoteID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Fields
	PubDate time.Time
}

type Patch struct {
	Text patch.Opt[string] `json:"text"`
}

func (p Patch) Apply(f *Fields) { p.Text.Apply(&f.Text) }
