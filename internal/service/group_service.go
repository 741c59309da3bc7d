package service

import (
	"errors"
	"fmt"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// GroupUserStore is the slice of the identity store the group engine needs.
type GroupUserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
}

// GroupRequestStore is the group formation ledger. HasPendingPair treats the
// pair as unordered. Approve must persist both user updates and the
// pending->approved flip atomically, failing with util.ErrAlreadyResolved
// when the request is no longer pending and with util.ErrAlreadyGrouped when
// a concurrent approval grouped either user after the caller read them; in
// both failure cases the request stays pending.
type GroupRequestStore interface {
	Create(req *model.GroupRequest) error
	FindByID(id string) (*model.GroupRequest, error)
	HasPendingPair(fromID, toID uint) (bool, error)
	ListPendingFor(toID uint) ([]model.GroupRequest, error)
	Reject(id string) error
	Approve(id string, from, to *model.User) error
}

// GroupService implements pairwise mutual-consent group formation.
type GroupService struct {
	Requests GroupRequestStore
	Users    GroupUserStore
}

func NewGroupService(requests GroupRequestStore, users GroupUserStore) *GroupService {
	return &GroupService{Requests: requests, Users: users}
}

// SendRequest records a pending group request from one student to another,
// resolved by email. No grouping happens until the receiver approves.
func (s *GroupService) SendRequest(fromID uint, toEmail string) (*model.GroupRequest, error) {
	from, err := s.Users.FindByID(fromID)
	if err != nil {
		return nil, fmt.Errorf("%w: sender %d", util.ErrNotFound, fromID)
	}

	to, err := s.Users.FindByEmail(toEmail)
	if err != nil || to.Role != model.Student {
		return nil, fmt.Errorf("%w: no student with email %s", util.ErrNotFound, toEmail)
	}

	if to.ID == from.ID {
		return nil, util.ErrSelfReference
	}
	if from.GroupID != nil || to.GroupID != nil {
		return nil, util.ErrAlreadyGrouped
	}

	dup, err := s.Requests.HasPendingPair(from.ID, to.ID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, util.ErrDuplicatePending
	}

	req := &model.GroupRequest{
		FromID: from.ID,
		ToID:   to.ID,
		Status: model.RequestPending,
	}
	if err := s.Requests.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListIncoming returns the student's pending requests, newest first.
func (s *GroupService) ListIncoming(studentID uint) ([]model.GroupRequest, error) {
	return s.Requests.ListPendingFor(studentID)
}

// Respond resolves a pending request. Only the receiver may respond, and a
// request resolves exactly once; a second call fails with ErrAlreadyResolved
// rather than silently succeeding, so retries never duplicate side effects.
func (s *GroupService) Respond(requestID string, responderID uint, decision Decision) error {
	req, err := s.Requests.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: group request %s", util.ErrNotFound, requestID)
		}
		return err
	}

	if req.ToID != responderID {
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

	from, err := s.Users.FindByID(req.FromID)
	if err != nil {
		return fmt.Errorf("%w: sender %d", util.ErrNotFound, req.FromID)
	}
	to, err := s.Users.FindByID(req.ToID)
	if err != nil {
		return fmt.Errorf("%w: receiver %d", util.ErrNotFound, req.ToID)
	}

	groupID, err := resolveGroupID(from, to)
	if err != nil {
		return err
	}

	from.GroupID = &groupID
	to.GroupID = &groupID
	from.TeamMembers = from.TeamMembers.Union(to.ID)
	to.TeamMembers = to.TeamMembers.Union(from.ID)

	return s.Requests.Approve(requestID, from, to)
}

// resolveGroupID propagates an existing group id or mints a fresh one. Two
// distinct non-nil ids mean the AlreadyGrouped guard was bypassed somewhere;
// that is an invariant violation and is never silently merged.
func resolveGroupID(from, to *model.User) (string, error) {
	switch {
	case from.GroupID != nil && to.GroupID != nil:
		if *from.GroupID != *to.GroupID {
			return "", fmt.Errorf("%w: students %d and %d carry different group ids",
				util.ErrConsistency, from.ID, to.ID)
		}
		return *from.GroupID, nil
	case from.GroupID != nil:
		return *from.GroupID, nil
	case to.GroupID != nil:
		return *to.GroupID, nil
	default:
		return MintGroupID(), nil
	}
}

// MintGroupID returns a new store-unique group identifier.
func MintGroupID() string {
	return "GROUP_" + uuid.New().String()
}
