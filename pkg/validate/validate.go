// Package validate wires go-playground/validator with the CRM's custom rules
// and converts failures into field-level application errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/display"
)

var (
	PhonePattern    = regexp.MustCompile(`^\+?1?\d{8,15}$`)
	TelegramPattern = regexp.MustCompile(`^@[A-Za-z0-9_-]+$`)
	// EmailPattern mirrors the front-end check; keep both in sync.
	EmailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]{1,}\.[a-zA-Z]{2,}$`)
	PasswordPattern = regexp.MustCompile(`^[^\sа-яА-Я]+$`)
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 128
)

type Validator struct {
	v      *validator.Validate
	reg    *choices.Registry
	minAge int
	maxAge int
	now    func() time.Time
}

func New(reg *choices.Registry, minAge, maxAge int) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	out := &Validator{v: v, reg: reg, minAge: minAge, maxAge: maxAge, now: time.Now}
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("telegram", validateTelegram)
	_ = v.RegisterValidation("email_strict", validateEmailStrict)
	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("choice", out.validateChoice)
	return out
}

// WithClock replaces the reference clock used for age checks.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	cp := *v
	cp.now = now
	return &cp
}

func (v *Validator) Registry() *choices.Registry { return v.reg }

// Struct validates s and reports the first failing field.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Internal(err)
	}
	fe := verrs[0]
	return apperr.Validation(fieldPath(fe), message(fe))
}

// BirthDate enforces the exclusive (min, max) age window.
func (v *Validator) BirthDate(field string, birth *time.Time) error {
	if birth == nil {
		return nil
	}
	age := display.Age(*birth, v.now())
	if age <= v.minAge || age >= v.maxAge {
		return apperr.Validation(field, "Проверьте дату рождения!")
	}
	return nil
}

// Choice checks a single optional code against a registry table.
func (v *Validator) Choice(field, table, code string) error {
	if code == "" || v.reg.Table(table).Has(code) {
		return nil
	}
	return apperr.Validation(field, fmt.Sprintf("Значения %q нет среди допустимых вариантов.", code))
}

// Choices checks every code of a multi-valued field.
func (v *Validator) Choices(field, table string, codes []string) error {
	for _, c := range codes {
		if err := v.Choice(field, table, c); err != nil {
			return err
		}
	}
	return nil
}

// Password applies the length and charset rules.
func Password(field, pw string) error {
	n := utf8.RuneCountInString(pw)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return apperr.Validation(field, "Минимальная длина пароля 8 символов, максимальная 128!")
	}
	if !PasswordPattern.MatchString(pw) {
		return apperr.Validation(field, "Пароль не должен содержать невидимые символы и кириллицу!")
	}
	return nil
}

func validatePhone(fl validator.FieldLevel) bool {
	return PhonePattern.MatchString(fl.Field().String())
}

func validateTelegram(fl validator.FieldLevel) bool {
	return TelegramPattern.MatchString(fl.Field().String())
}

func validateEmailStrict(fl validator.FieldLevel) bool {
	return EmailPattern.MatchString(fl.Field().String())
}

func validatePassword(fl validator.FieldLevel) bool {
	return Password("", fl.Field().String()) == nil
}

func (v *Validator) validateChoice(fl validator.FieldLevel) bool {
	return v.reg.Table(fl.Param()).Has(fl.Field().String())
}

// fieldPath drops the root struct name: "Input.work_experiences[0].end_date" -> "work_experiences[0].end_date".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле."
	case "email", "email_strict":
		return "Введите правильный адрес электронной почты."
	case "phone":
		return "Номер телефона должен быть в формате +79991234567."
	case "telegram":
		return "Ник в Telegram должен начинаться с @ и содержать латиницу, цифры, _ или -."
	case "password":
		return "Пароль должен быть от 8 до 128 символов без пробелов и кириллицы."
	case "choice":
		return fmt.Sprintf("Значения %q нет среди допустимых вариантов.", fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("Значение должно быть не короче %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Значение должно быть не длиннее %s.", fe.Param())
	case "url", "http_url":
		return "Введите правильный URL."
	case "gte", "ltefield", "gtefield":
		return "Недопустимое значение."
	default:
		return fmt.Sprintf("Недопустимое значение (%s).", fe.Tag())
	}
}
