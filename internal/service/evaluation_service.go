package service

import (
	"errors"
	"fmt"
	"time"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"gorm.io/gorm"
)

// EvaluationStore is the per-student three-slot mark record.
type EvaluationStore interface {
	FindByStudent(studentID uint) (*model.Evaluation, error)
	FindOrCreate(studentID uint) (*model.Evaluation, error)
	UpdateSlot(studentID uint, role model.EvaluatorRole, slot model.MarkSlot) error
}

// EvaluationUserStore is the identity lookup the aggregator needs.
type EvaluationUserStore interface {
	FindByID(id uint) (*model.User, error)
}

// EvaluationService owns the three-rater additive scoring model. Each
// evaluator role writes exactly one slot; "evaluated" means at least one slot
// is populated, not that grading is complete. Any release-the-grade policy
// belongs to the caller.
type EvaluationService struct {
	Evaluations EvaluationStore
	Users       EvaluationUserStore
}

func NewEvaluationService(evaluations EvaluationStore, users EvaluationUserStore) *EvaluationService {
	return &EvaluationService{Evaluations: evaluations, Users: users}
}

// Submit upserts the caller role's slot. Resubmission overwrites the slot;
// the other two slots are untouched. Marks are validated against the role's
// own scale (0..50 supervisor/internal, 0..100 external).
func (s *EvaluationService) Submit(studentID uint, role model.EvaluatorRole, marks int, feedback string) (*model.Evaluation, error) {
	bound, ok := model.MarksBound(role)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an evaluator role", util.ErrValidation, role)
	}
	if marks < 0 || marks > bound {
		return nil, fmt.Errorf("%w: %s marks must be between 0 and %d, got %d",
			util.ErrValidation, role, bound, marks)
	}

	student, err := s.Users.FindByID(studentID)
	if err != nil || student.Role != model.Student {
		return nil, fmt.Errorf("%w: student %d", util.ErrNotFound, studentID)
	}

	if _, err := s.Evaluations.FindOrCreate(studentID); err != nil {
		return nil, err
	}

	now := time.Now()
	slot := model.MarkSlot{
		Marks:       &marks,
		Feedback:    feedback,
		EvaluatedAt: &now,
	}
	if err := s.Evaluations.UpdateSlot(studentID, role, slot); err != nil {
		return nil, err
	}

	return s.Evaluations.FindByStudent(studentID)
}

// Get returns the student's evaluation record.
func (s *EvaluationService) Get(studentID uint) (*model.Evaluation, error) {
	eval, err := s.Evaluations.FindByStudent(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no evaluation for student %d", util.ErrNotFound, studentID)
		}
		return nil, err
	}
	return eval, nil
}

// Total sums the populated slots, 0 for absent slots or a missing record.
// A partial total is a valid, displayable intermediate state.
func (s *EvaluationService) Total(studentID uint) (int, error) {
	eval, err := s.Evaluations.FindByStudent(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return eval.Total(), nil
}
