package repository

import (
	"strings"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"gorm.io/gorm"
)

type MilestoneRepository struct {
	DB *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{DB: db}
}

func (r *MilestoneRepository) Create(m *model.Milestone) error {
	err := r.DB.Create(m).Error
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return util.ErrConflict
	}
	return err
}

func (r *MilestoneRepository) FindByID(id uint) (*model.Milestone, error) {
	var m model.Milestone
	err := r.DB.First(&m, id).Error
	return &m, err
}

func (r *MilestoneRepository) List() ([]model.Milestone, error) {
	var ms []model.Milestone
	err := r.DB.Order("display_order ASC").Find(&ms).Error
	return ms, err
}

func (r *MilestoneRepository) Update(m *model.Milestone) error {
	err := r.DB.Save(m).Error
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return util.ErrConflict
	}
	return err
}

func (r *MilestoneRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Milestone{}, id).Error
}
