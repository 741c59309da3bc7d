package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// Upload constraints for milestone documents.
const (
	MimePDF         = "application/pdf"
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
	MimeZip         = "application/zip"

	MaxDocumentSize = 25 << 20 // 25 MiB
)

var (
	AllowedDocumentExtensions = []string{".pdf", ".doc", ".docx", ".png", ".jpg", ".jpeg", ".zip"}
)
