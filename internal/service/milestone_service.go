package service

import (
	"errors"
	"fmt"
	"time"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"gorm.io/gorm"
)

// MilestoneStore persists the project timeline.
type MilestoneStore interface {
	Create(m *model.Milestone) error
	FindByID(id uint) (*model.Milestone, error)
	List() ([]model.Milestone, error)
	Update(m *model.Milestone) error
	Delete(id uint) error
}

type MilestoneService struct {
	Milestones MilestoneStore
}

func NewMilestoneService(milestones MilestoneStore) *MilestoneService {
	return &MilestoneService{Milestones: milestones}
}

func (s *MilestoneService) Create(m *model.Milestone) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", util.ErrValidation)
	}
	return s.Milestones.Create(m)
}

func (s *MilestoneService) List() ([]model.Milestone, error) {
	return s.Milestones.List()
}

// Update patches only the fields the caller supplied. Deadline and order are
// pointers so zero values stay expressible: a nil pointer leaves the field
// alone, while *order == 0 moves the milestone to the front of the timeline.
func (s *MilestoneService) Update(id uint, name string, deadline *time.Time, order *int) (*model.Milestone, error) {
	m, err := s.Milestones.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: milestone %d", util.ErrNotFound, id)
		}
		return nil, err
	}

	if name != "" {
		m.Name = name
	}
	if deadline != nil {
		m.Deadline = deadline
	}
	if order != nil {
		m.Order = *order
	}

	if err := s.Milestones.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MilestoneService) Delete(id uint) error {
	if _, err := s.Milestones.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: milestone %d", util.ErrNotFound, id)
		}
		return err
	}
	return s.Milestones.Delete(id)
}
