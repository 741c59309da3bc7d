package model

type FileType string

const (
	FileProposal    FileType = "proposal"
	FileSRS         FileType = "srs"
	FileDiagram     FileType = "diagram"
	FileFinalReport FileType = "finalReport"
)

// ValidFileType reports whether t is one of the accepted document types.
func ValidFileType(t FileType) bool {
	switch t {
	case FileProposal, FileSRS, FileDiagram, FileFinalReport:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocPending  DocumentStatus = "pending"
	DocReviewed DocumentStatus = "reviewed"
	DocApproved DocumentStatus = "approved"
	DocRejected DocumentStatus = "rejected"
)

func ValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocPending, DocReviewed, DocApproved, DocRejected:
		return true
	}
	return false
}

// Document is one upload in a (student, fileType) slot. Only the latest row
// per slot is live; the slot re-opens when that row is rejected.
type Document struct {
	UUIDBase
	UploadedBy  uint           `gorm:"index;not null" json:"uploadedBy"`
	Uploader    User           `gorm:"foreignKey:UploadedBy;references:ID;constraint:false" json:"uploader,omitempty"`
	FileType    FileType       `gorm:"type:enum('proposal','srs','diagram','finalReport');not null;index" json:"fileType"`
	Title       string         `gorm:"size:255" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	FilePath    string         `gorm:"size:512;not null" json:"filePath"`
	Status      DocumentStatus `gorm:"type:enum('pending','reviewed','approved','rejected');default:'pending'" json:"status"`
	Feedback    string         `gorm:"type:text" json:"feedback"`
}

func (Document) TableName() string {
	return "documents"
}
