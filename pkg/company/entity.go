package company

import (
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-crm/pkg/patch"
)

// Fields are the client-writable attributes of a company.
type Fields struct {
	Title   string `json:"company_title" validate:"required,min=2,max=100"`
	About   string `json:"about_company" validate:"max=5000"`
	Address string `json:"company_address" validate:"max=100"`
	Website string `json:"website" validate:"required,url,max=255"`
	Email   string `json:"email" validate:"omitempty,email,email_strict,max=254"`
	Phone   string `json:"phone_number" validate:"omitempty,phone"`
	LinkHR  string `json:"link_hr" validate:"omitempty,url,max=250"`
}

type Company struct {
	ID uuid.UUID
	Fields
	// Logo is the public URL of the uploaded logo, "" when none.
	Logo      string
	CreatedAt time.Time
}

// Patch carries the fields present in a partial update.
type Patch struct {
	Title   patch.Opt[string] `json:"company_title"`
	About   patch.Opt[string] `json:"about_company"`
	Address patch.Opt[string] `json:"company_address"`
	Website patch.Opt[string] `json:"website"`
	Email   patch.Opt[string] `json:"email"`
	Phone   patch.Opt[string] `json:"phone_number"`
	LinkHR  patch.Opt[string] `json:"link_hr"`
}

func (p Patch) Apply(f *Fields) {
	p.Title.Apply(&f.Title)
	p.About.Apply(&f.About)
	p.Address.Apply(&f.Address)
	p.Website.Apply(&f.Website)
	p.Email.Apply(&f.Email)
	p.Phone.Apply(&f.Phone)
	p.LinkHR.Apply(&f.LinkHR)
}
