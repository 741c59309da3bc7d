package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"
	"fyp_portal_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const initialFeedback = "Awaiting review"

// DocumentStore is the milestone document ledger.
type DocumentStore interface {
	Create(doc *model.Document) error
	FindByID(id string) (*model.Document, error)
	LatestForSlot(studentID uint, fileType model.FileType) (*model.Document, error)
	ListByStudent(studentID uint) ([]model.Document, error)
	SetStatus(id string, status model.DocumentStatus) error
	SetFeedback(id string, feedback string, status model.DocumentStatus) error
}

// BlobStore is the opaque file store documents live in. StorageService
// satisfies it.
type BlobStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// DocumentService owns the per-slot review state machine. A slot is the
// series of uploads for one student and file type; only the latest upload is
// live, and the slot re-opens when that upload is rejected.
type DocumentService struct {
	Documents DocumentStore
	Blobs     BlobStore
}

func NewDocumentService(documents DocumentStore, blobs BlobStore) *DocumentService {
	return &DocumentService{Documents: documents, Blobs: blobs}
}

// CanUpload is true when the slot is empty or its latest upload was rejected.
func (s *DocumentService) CanUpload(studentID uint, fileType model.FileType) (bool, error) {
	if !model.ValidFileType(fileType) {
		return false, fmt.Errorf("%w: %q", util.ErrUnsupportedType, fileType)
	}
	latest, err := s.Documents.LatestForSlot(studentID, fileType)
	if err != nil {
		return false, err
	}
	return latest == nil || latest.Status == model.DocRejected, nil
}

// Upload stores the blob and inserts a pending document. The slot gate is
// checked first so a locked slot never costs blob storage.
func (s *DocumentService) Upload(ctx context.Context, studentID uint, fileType model.FileType, title, description, filename string, reader io.Reader, size int64, contentType string) (*model.Document, error) {
	ok, err := s.CanUpload(studentID, fileType)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s for student %d", util.ErrSlotLocked, fileType, studentID)
	}

	objectName := fmt.Sprintf("documents/%d/%s/%s%s",
		studentID, fileType, model.GenerateUUID(), filepath.Ext(filename))
	if _, err := s.Blobs.Upload(ctx, objectName, reader, size, contentType); err != nil {
		return nil, err
	}

	doc := &model.Document{
		UploadedBy:  studentID,
		FileType:    fileType,
		Title:       title,
		Description: description,
		FilePath:    objectName,
		Status:      model.DocPending,
		Feedback:    initialFeedback,
	}
	if err := s.Documents.Create(doc); err != nil {
		// Do not leave an orphaned blob behind the failed insert.
		if delErr := s.Blobs.Delete(ctx, objectName); delErr != nil {
			logger.Log.Warn("failed to remove blob after insert failure",
				zap.String("object", objectName), zap.Error(delErr))
		}
		return nil, err
	}
	return doc, nil
}

// SetStatus moves a document to any of the four statuses, except that
// approved is terminal. Rejection deletes the blob and re-opens the slot.
func (s *DocumentService) SetStatus(ctx context.Context, documentID string, reviewerID uint, status model.DocumentStatus) (*model.Document, error) {
	if !model.ValidDocumentStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", util.ErrValidation, status)
	}

	doc, err := s.Documents.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", util.ErrNotFound, documentID)
		}
		return nil, err
	}
	if doc.Status == model.DocApproved {
		return nil, fmt.Errorf("%w: document %s is approved and immutable", util.ErrConflict, documentID)
	}

	if err := s.Documents.SetStatus(documentID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s is approved and immutable", util.ErrConflict, documentID)
		}
		return nil, err
	}
	doc.Status = status

	if status == model.DocRejected {
		// Best effort: the slot is already re-opened, a leaked blob is only
		// wasted storage.
		if err := s.Blobs.Delete(ctx, doc.FilePath); err != nil {
			logger.Log.Warn("failed to delete blob of rejected document",
				zap.String("document", documentID),
				zap.String("object", doc.FilePath),
				zap.Error(err))
		}
	}
	return doc, nil
}

// AttachFeedback records reviewer feedback and implicitly moves a pending
// document to reviewed. Approved documents no longer take feedback.
func (s *DocumentService) AttachFeedback(documentID string, reviewerID uint, text string) (*model.Document, error) {
	doc, err := s.Documents.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", util.ErrNotFound, documentID)
		}
		return nil, err
	}
	if doc.Status == model.DocApproved {
		return nil, fmt.Errorf("%w: document %s is approved and immutable", util.ErrConflict, documentID)
	}

	status := doc.Status
	if status == model.DocPending {
		status = model.DocReviewed
	}
	if err := s.Documents.SetFeedback(documentID, text, status); err != nil {
		return nil, err
	}
	doc.Feedback = text
	doc.Status = status
	return doc, nil
}

// ListByStudent groups a student's documents by file type, newest first
// within each type.
func (s *DocumentService) ListByStudent(studentID uint) (map[model.FileType][]model.Document, error) {
	docs, err := s.Documents.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	grouped := make(map[model.FileType][]model.Document)
	for _, d := range docs {
		grouped[d.FileType] = append(grouped[d.FileType], d)
	}
	return grouped, nil
}
