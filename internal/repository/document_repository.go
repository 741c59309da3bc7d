package repository

import (
	"errors"

	"fyp_portal_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.First(&doc, "id = ?", id).Error
	return &doc, err
}

// LatestForSlot returns the newest document of a (student, fileType) slot,
// or nil when the slot is empty.
func (r *DocumentRepository) LatestForSlot(studentID uint, fileType model.FileType) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Where("uploaded_by = ? AND file_type = ?", studentID, fileType).
		Order("created_at DESC").
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByStudent(studentID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.DB.Where("uploaded_by = ?", studentID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// SetStatus updates the review status. The guard excludes approved rows so a
// racing reviewer cannot move a document out of its terminal state.
func (r *DocumentRepository) SetStatus(id string, status model.DocumentStatus) error {
	res := r.DB.Model(&model.Document{}).
		Where("id = ? AND status <> ?", id, model.DocApproved).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepository) SetFeedback(id string, feedback string, status model.DocumentStatus) error {
	res := r.DB.Model(&model.Document{}).
		Where("id = ? AND status <> ?", id, model.DocApproved).
		Updates(map[string]interface{}{
			"feedback": feedback,
			"status":   status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
