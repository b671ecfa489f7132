package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
)

type contactForm struct {
	Phone    string   `json:"phone_number" validate:"required,phone"`
	Email    string   `json:"email" validate:"required,email,email_strict"`
	Telegram string   `json:"telegram" validate:"omitempty,telegram"`
	Schedule []string `json:"schedule_work" validate:"dive,choice=schedule_work"`
}

func newValidator() *Validator {
	v := New(choices.Default(), 14, 100)
	return v.WithClock(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) })
}

func TestStructAcceptsValidForm(t *testing.T) {
	v := newValidator()
	err := v.Struct(contactForm{
		Phone:    "+79991234567",
		Email:    "ivan.petrov@example.com",
		Telegram: "@ivan_p",
		Schedule: []string{"P", "U"},
	})
	require.NoError(t, err)
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := newValidator()
	cases := []struct {
		name  string
		form  contactForm
		field string
	}{
		{"short phone", contactForm{Phone: "12345", Email: "a@b.cd"}, "phone_number"},
		{"telegram without at", contactForm{Phone: "89991234567", Email: "a@b.cd", Telegram: "ivan"}, "telegram"},
		{"email with plus", contactForm{Phone: "89991234567", Email: "a+b@c.de"}, "email"},
		{"unknown schedule", contactForm{Phone: "89991234567", Email: "a@b.cd", Schedule: []string{"X"}}, "schedule_work[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.form)
			require.Error(t, err)
			ae := apperr.As(err)
			assert.Equal(t, apperr.KindValidation, ae.Kind)
			assert.Equal(t, tc.field, ae.Field)
		})
	}
}

func TestBirthDateWindowIsExclusive(t *testing.T) {
	v := newValidator()
	ok := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, v.BirthDate("bday", &ok))
	assert.NoError(t, v.BirthDate("bday", nil))

	exactlyMin := time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Error(t, v.BirthDate("bday", &exactlyMin))

	justOverMin := time.Date(2009, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, v.BirthDate("bday", &justOverMin))

	exactlyMax := time.Date(1924, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Error(t, v.BirthDate("bday", &exactlyMax))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("password", "Secr3t!pass"))
	assert.Error(t, Password("password", "short"))
	assert.Error(t, Password("password", "with space inside"))
	assert.Error(t, Password("password", "парольпароль"))
}

func TestChoiceHelpers(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Choice("education", choices.Education, ""))
	assert.NoError(t, v.Choice("education", choices.Education, "VS"))
	assert.Error(t, v.Choice("education", choices.Education, "PHD"))
	assert.Error(t, v.Choices("employment_type", choices.EmploymentType, []string{"PO", "ZZ"}))
}
