package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role separates recruiters from applicants.
type Role string

const (
	RoleHR        Role = "hr"
	RoleApplicant Role = "applicant"
)

func (r Role) Valid() bool { return r == RoleHR || r == RoleApplicant }

// User is a domain entity representing a system user. Email is the login.
type User struct {
	ID               uuid.UUID
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	Role             Role
	IsAdmin          bool
	IsConfirmed      bool
	ConfirmationCode string
	CreatedAt        time.Time
}

func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

type SignupInput struct {
	Email     string `json:"email" validate:"required,email,email_strict,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      Role   `json:"role"`
}

type ChangePasswordInput struct {
	OldPassword  string `json:"old_password"`
	NewPassword1 string `json:"new_password_1"`
	NewPassword2 string `json:"new_password_2"`
}
