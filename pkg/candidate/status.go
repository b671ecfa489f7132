package candidate

import (
	"errors"
	"strings"
)

var ErrStatusConflict = errors.New("interview_status and custom_status are mutually exclusive")

type statusKind uint8

const (
	statusNone statusKind = iota
	statusStage
	statusCustom
)

// Status is where a candidate stands: a stage from the interview_status
// vocabulary, a free-text label, or nothing yet. It can never be both.
type Status struct {
	kind  statusKind
	value string
}

func FixedStage(code string) Status { return Status{kind: statusStage, value: code} }

func CustomLabel(text string) Status { return Status{kind: statusCustom, value: text} }

func (s Status) Stage() (string, bool) { return s.value, s.kind == statusStage }

func (s Status) Custom() (string, bool) { return s.value, s.kind == statusCustom }

func (s Status) IsZero() bool { return s.kind == statusNone }

// Columns splits the status into the interview_status/custom_status pair.
func (s Status) Columns() (interview, custom string) {
	switch s.kind {
	case statusStage:
		return s.value, ""
	case statusCustom:
		return "", s.value
	default:
		return "", ""
	}
}

// StatusOf joins the pair back; both non-empty is rejected.
func StatusOf(interview, custom string) (Status, error) {
	interview = strings.TrimSpace(interview)
	custom = strings.TrimSpace(custom)
	switch {
	case interview != "" && custom != "":
		return Status{}, ErrStatusConflict
	case interview != "":
		return FixedStage(interview), nil
	case custom != "":
		return CustomLabel(custom), nil
	default:
		return Status{}, nil
	}
}
