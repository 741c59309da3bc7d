package service

import (
	"errors"
	"fmt"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"gorm.io/gorm"
)

// SupervisionUserStore is the identity lookup the assignment engine needs.
type SupervisionUserStore interface {
	FindByID(id uint) (*model.User, error)
}

// SupervisorRequestStore is the supervisor assignment ledger. Approve must
// atomically snapshot the supervisor onto the student, extend the roster and
// flip the request, failing with util.ErrAlreadyResolved once resolved.
type SupervisorRequestStore interface {
	Create(req *model.SupervisorRequest) error
	FindByID(id string) (*model.SupervisorRequest, error)
	HasActiveForStudent(studentID uint) (bool, error)
	ListPendingForSupervisor(supervisorID uint) ([]model.SupervisorRequest, error)
	Reject(id string) error
	Approve(id string, student, supervisor *model.User) error
	ResyncSnapshots(supervisor *model.User) (int, error)
}

// SupervisionService pairs students with supervisors under the
// one-active-request and capacity constraints.
type SupervisionService struct {
	Requests SupervisorRequestStore
	Users    SupervisionUserStore
}

func NewSupervisionService(requests SupervisorRequestStore, users SupervisionUserStore) *SupervisionService {
	return &SupervisionService{Requests: requests, Users: users}
}

// Submit files a new pending request. A student with a pending or approved
// request anywhere gets Conflict; the old presentation-layer check is now
// enforced here.
func (s *SupervisionService) Submit(studentID, supervisorID uint, title, description string) (*model.SupervisorRequest, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: projectTitle is required", util.ErrValidation)
	}

	supervisor, err := s.Users.FindByID(supervisorID)
	if err != nil || supervisor.Role != model.Supervisor {
		return nil, fmt.Errorf("%w: supervisor %d", util.ErrNotFound, supervisorID)
	}

	active, err := s.Requests.HasActiveForStudent(studentID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("%w: student %d already has an active supervisor request", util.ErrConflict, studentID)
	}

	req := &model.SupervisorRequest{
		StudentID:          studentID,
		SupervisorID:       supervisorID,
		ProjectTitle:       title,
		ProjectDescription: description,
		Status:             model.RequestPending,
	}
	if err := s.Requests.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListIncoming returns a supervisor's pending requests, newest first.
func (s *SupervisionService) ListIncoming(supervisorID uint) ([]model.SupervisorRequest, error) {
	return s.Requests.ListPendingForSupervisor(supervisorID)
}

// Decide resolves a request. Only the named supervisor may decide. Approval
// snapshots the supervisor's identity onto the student; later profile edits
// do not propagate until ResyncSnapshots runs (documented staleness
// trade-off, not a defect).
func (s *SupervisionService) Decide(requestID string, supervisorID uint, decision Decision) error {
	req, err := s.Requests.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: supervisor request %s", util.ErrNotFound, requestID)
		}
		return err
	}

	if req.SupervisorID != supervisorID {
		return util.ErrForbidden
	}
	if req.Status != model.RequestPending {
		return util.ErrAlreadyResolved
	}

	if decision == DecisionReject {
		return s.Requests.Reject(requestID)
	}
	if decision != DecisionApprove {
		return fmt.Errorf("%w: unknown decision %q", util.ErrValidation, decision)
	}

	supervisor, err := s.Users.FindByID(req.SupervisorID)
	if err != nil {
		return fmt.Errorf("%w: supervisor %d", util.ErrNotFound, req.SupervisorID)
	}
	student, err := s.Users.FindByID(req.StudentID)
	if err != nil {
		return fmt.Errorf("%w: student %d", util.ErrNotFound, req.StudentID)
	}

	// Capacity check leaves the request pending for a later decision.
	if supervisor.MaxGroups > 0 && len(supervisor.Roster) >= supervisor.MaxGroups {
		return fmt.Errorf("%w: supervisor %d is at capacity (%d)",
			util.ErrCapacityExceeded, supervisor.ID, supervisor.MaxGroups)
	}

	student.SupervisorID = &supervisor.ID
	student.SupervisorName = supervisor.Name
	student.SupervisorDepartment = supervisor.Department
	student.SupervisorEmail = supervisor.Email
	student.ProjectStatus = model.ProjectApproved
	supervisor.Roster = supervisor.Roster.Union(student.ID)

	return s.Requests.Approve(requestID, student, supervisor)
}

// ResyncSnapshots re-copies the supervisor's identity fields onto every
// student approved under them, returning how many rows were refreshed.
func (s *SupervisionService) ResyncSnapshots(supervisorID uint) (int, error) {
	supervisor, err := s.Users.FindByID(supervisorID)
	if err != nil || supervisor.Role != model.Supervisor {
		return 0, fmt.Errorf("%w: supervisor %d", util.ErrNotFound, supervisorID)
	}
	return s.Requests.ResyncSnapshots(supervisor)
}
