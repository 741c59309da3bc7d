package service

import (
	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/repository"
)

type UserService struct {
	UserRepo  *repository.UserRepository
	GroupRepo *repository.GroupRequestRepository
}

func NewUserService(userRepo *repository.UserRepository, groupRepo *repository.GroupRequestRepository) *UserService {
	return &UserService{UserRepo: userRepo, GroupRepo: groupRepo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

func (s *UserService) ListUsers(role model.UserRole, query string, limit, offset int) ([]model.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(role, query, limit, offset)
}

// ListSupervisors is the browse list students pick a supervisor from.
func (s *UserService) ListSupervisors(query string) ([]model.User, error) {
	supervisors, _, err := s.UserRepo.List(model.Supervisor, query, 100, 0)
	return supervisors, err
}

// TeamMembers resolves a student's teammates to full user records. Grouped
// students resolve through the cached group membership; the denormalized
// TeamMembers column is the fallback.
func (s *UserService) TeamMembers(user *model.User) ([]model.User, error) {
	if user.GroupID != nil && s.GroupRepo != nil {
		ids, err := s.GroupRepo.GroupMemberIDsCached(*user.GroupID)
		if err == nil && len(ids) > 0 {
			others := make([]uint, 0, len(ids))
			for _, id := range ids {
				if id != user.ID {
					others = append(others, id)
				}
			}
			if len(others) == 0 {
				return nil, nil
			}
			return s.UserRepo.FindByIDs(others)
		}
	}

	if len(user.TeamMembers) == 0 {
		return nil, nil
	}
	return s.UserRepo.FindByIDs(user.TeamMembers)
}
