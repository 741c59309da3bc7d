package model

import "time"

type EvaluatorRole string

const (
	EvalSupervisor EvaluatorRole = "supervisor"
	EvalInternal   EvaluatorRole = "internal"
	EvalExternal   EvaluatorRole = "external"
)

// MarksBound returns the inclusive upper bound for a role's marks. The
// external examiner marks out of 100 while the other two mark out of 50,
// matching the legacy grading sheets.
func MarksBound(role EvaluatorRole) (int, bool) {
	switch role {
	case EvalSupervisor, EvalInternal:
		return 50, true
	case EvalExternal:
		return 100, true
	}
	return 0, false
}

type EvaluationStatus string

const (
	EvalPending   EvaluationStatus = "pending"
	EvalEvaluated EvaluationStatus = "evaluated"
)

// MarkSlot is one evaluator's entry. Marks is nil until that evaluator has
// submitted; a resubmission overwrites the slot.
type MarkSlot struct {
	Marks       *int       `json:"marks"`
	Feedback    string     `gorm:"type:text" json:"feedback"`
	EvaluatedAt *time.Time `json:"evaluatedAt"`
}

// Value returns the slot's marks, treating an absent slot as 0.
func (s MarkSlot) Value() int {
	if s.Marks == nil {
		return 0
	}
	return *s.Marks
}

// Evaluation holds the three independently-owned mark slots for one student.
// Created lazily on the first evaluator submission.
type Evaluation struct {
	BaseModel
	StudentID       uint             `gorm:"uniqueIndex;not null" json:"studentId"`
	SupervisorMarks MarkSlot         `gorm:"embedded;embeddedPrefix:supervisor_" json:"supervisorMarks"`
	InternalMarks   MarkSlot         `gorm:"embedded;embeddedPrefix:internal_" json:"internalMarks"`
	ExternalMarks   MarkSlot         `gorm:"embedded;embeddedPrefix:external_" json:"externalMarks"`
	Status          EvaluationStatus `gorm:"type:enum('pending','evaluated');default:'pending'" json:"status"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// Slot returns a pointer to the slot owned by role, or nil for a non-evaluator role.
func (e *Evaluation) Slot(role EvaluatorRole) *MarkSlot {
	switch role {
	case EvalSupervisor:
		return &e.SupervisorMarks
	case EvalInternal:
		return &e.InternalMarks
	case EvalExternal:
		return &e.ExternalMarks
	}
	return nil
}

// Total sums the populated slots. A partial total is a valid intermediate
// state; no check that all three evaluators have submitted.
func (e *Evaluation) Total() int {
	return e.SupervisorMarks.Value() + e.InternalMarks.Value() + e.ExternalMarks.Value()
}
