package repository

import (
	"errors"
	"strings"
	"time"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) FindByStudent(studentID uint) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.DB.Where("student_id = ?", studentID).First(&eval).Error
	return &eval, err
}

// FindOrCreate returns the student's evaluation row, creating it with empty
// slots on first use. The unique index on student_id makes the create path
// race-safe: a duplicate-key loser re-reads the winner's row.
func (r *EvaluationRepository) FindOrCreate(studentID uint) (*model.Evaluation, error) {
	eval, err := r.FindByStudent(studentID)
	if err == nil {
		return eval, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &model.Evaluation{
		StudentID: studentID,
		Status:    model.EvalPending,
	}
	if err := r.DB.Create(fresh).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return r.FindByStudent(studentID)
		}
		return nil, err
	}
	return fresh, nil
}

// UpdateSlot overwrites exactly one evaluator's slot and marks the record
// evaluated. Columns are targeted so concurrent evaluators writing disjoint
// slots never clobber each other.
func (r *EvaluationRepository) UpdateSlot(studentID uint, role model.EvaluatorRole, slot model.MarkSlot) error {
	var prefix string
	switch role {
	case model.EvalSupervisor:
		prefix = "supervisor_"
	case model.EvalInternal:
		prefix = "internal_"
	case model.EvalExternal:
		prefix = "external_"
	default:
		return util.ErrValidation
	}

	res := r.DB.Model(&model.Evaluation{}).
		Where("student_id = ?", studentID).
		Updates(map[string]interface{}{
			prefix + "marks":        slot.Marks,
			prefix + "feedback":     slot.Feedback,
			prefix + "evaluated_at": slot.EvaluatedAt,
			"status":                model.EvalEvaluated,
			"updated_at":            time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
