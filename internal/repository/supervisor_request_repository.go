package repository

import (
	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"gorm.io/gorm"
)

type SupervisorRequestRepository struct {
	DB *gorm.DB
}

func NewSupervisorRequestRepository(db *gorm.DB) *SupervisorRequestRepository {
	return &SupervisorRequestRepository{DB: db}
}

func (r *SupervisorRequestRepository) Create(req *model.SupervisorRequest) error {
	return r.DB.Create(req).Error
}

func (r *SupervisorRequestRepository) FindByID(id string) (*model.SupervisorRequest, error) {
	var req model.SupervisorRequest
	err := r.DB.First(&req, "id = ?", id).Error
	return &req, err
}

// HasActiveForStudent reports whether the student already holds a pending or
// approved request. This is the server-side one-active-request guard.
func (r *SupervisorRequestRepository) HasActiveForStudent(studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.SupervisorRequest{}).
		Where("student_id = ? AND status IN ?", studentID,
			[]model.RequestStatus{model.RequestPending, model.RequestApproved}).
		Count(&count).Error
	return count > 0, err
}

func (r *SupervisorRequestRepository) ListPendingForSupervisor(supervisorID uint) ([]model.SupervisorRequest, error) {
	var reqs []model.SupervisorRequest
	err := r.DB.Preload("Student").
		Where("supervisor_id = ? AND status = ?", supervisorID, model.RequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *SupervisorRequestRepository) Reject(id string) error {
	res := r.DB.Model(&model.SupervisorRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Update("status", model.RequestRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrAlreadyResolved
	}
	return nil
}

// Approve writes the supervisor snapshot onto the student, extends the
// supervisor's roster and flips the request, all in one transaction. The
// status-guarded update serializes concurrent decisions.
func (r *SupervisorRequestRepository) Approve(id string, student, supervisor *model.User) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", student.ID).
			Select("SupervisorID", "SupervisorName", "SupervisorDepartment",
				"SupervisorEmail", "ProjectStatus", "UpdatedAt").
			Updates(student)
		if res.Error != nil {
			return res.Error
		}

		res = tx.Model(&model.User{}).
			Where("id = ?", supervisor.ID).
			Select("Roster", "UpdatedAt").
			Updates(supervisor)
		if res.Error != nil {
			return res.Error
		}

		res = tx.Model(&model.SupervisorRequest{}).
			Where("id = ? AND status = ?", id, model.RequestPending).
			Update("status", model.RequestApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrAlreadyResolved
		}
		return nil
	})
}

// ResyncSnapshots re-copies the supervisor's current identity fields onto
// every rostered student. Explicit staleness repair; never implicit.
func (r *SupervisorRequestRepository) ResyncSnapshots(supervisor *model.User) (int, error) {
	if len(supervisor.Roster) == 0 {
		return 0, nil
	}
	res := r.DB.Model(&model.User{}).
		Where("id IN ? AND supervisor_id = ?", []uint(supervisor.Roster), supervisor.ID).
		Updates(map[string]interface{}{
			"supervisor_name":       supervisor.Name,
			"supervisor_department": supervisor.Department,
			"supervisor_email":      supervisor.Email,
		})
	return int(res.RowsAffected), res.Error
}
