// Package session tracks per-administrator progress through the multi-step
// registration flow. Sessions are plain data keyed by administrator id so
// the state machine stays inspectable and testable; they live in memory and
// do not survive a restart.
package session

import "github.com/controlusuario/userbot/internal/domain"

// Step identifies the position in the fixed field-collection sequence.
type Step int

const (
	// StepTargetID waits for the numeric id of the user to edit.
	StepTargetID Step = iota
	StepFirstName
	StepLastName
	StepPlan
	StepGroup
	StepAcademy
	StepPhone
	// StepDone is terminal; a session never rests in this step.
	StepDone
)

// Next returns the step that follows s in the collection sequence.
func (s Step) Next() Step {
	if s >= StepDone {
		return StepDone
	}
	return s + 1
}

// Field returns the user field collected at this step, or "" for steps that
// collect no field.
func (s Step) Field() string {
	switch s {
	case StepFirstName:
		return domain.FieldFirstName
	case StepLastName:
		return domain.FieldLastName
	case StepPlan:
		return domain.FieldPlan
	case StepGroup:
		return domain.FieldGroup
	case StepAcademy:
		return domain.FieldAcademy
	case StepPhone:
		return domain.FieldPhone
	}
	return ""
}

// Session is the editing state of one administrator. TargetID is zero until
// the target user has been resolved.
type Session struct {
	AdminID  int64
	TargetID int64
	Step     Step
}
