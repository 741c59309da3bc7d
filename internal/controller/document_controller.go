package controller

import (
	"io"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/service"
	"fyp_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	DocumentService *service.DocumentService
	StorageService  *service.StorageService
}

func NewDocumentController(documentService *service.DocumentService, storageService *service.StorageService) *DocumentController {
	return &DocumentController{
		DocumentService: documentService,
		StorageService:  storageService,
	}
}

type UploadDocumentRequest struct {
	FileType    string `form:"fileType" binding:"required,oneof=proposal srs diagram finalReport"`
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
}

// Upload godoc
// @Summary Upload a milestone document
// @Description Rejected only while the latest document of the same type is still pending, reviewed or approved.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param fileType formData string true "Document type" Enums(proposal, srs, diagram, finalReport)
// @Param title formData string true "Document title"
// @Param description formData string false "Description"
// @Param file formData file true "Document file"
// @Success 201 {object} util.Response{data=model.Document}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/documents [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UploadDocumentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	if file.Size > util.MaxDocumentSize {
		util.BadRequest(ctx, "File exceeds the 25 MiB limit")
		return
	}
	if !util.AllowedExtension(file.Filename, util.AllowedDocumentExtensions) {
		util.BadRequest(ctx, "File extension not allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	// Sniff the content rather than trusting the client's header. .doc and
	// .docx sniff as octet-stream and zip respectively, hence the broad list.
	contentType, err := util.ValidateMimeType(src, []string{
		util.MimePDF, util.MimeImage, util.MimeZip, util.MimeOctetStream,
	})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	doc, err := c.DocumentService.Upload(
		ctx.Request.Context(),
		user.UserID,
		model.FileType(req.FileType),
		req.Title,
		req.Description,
		file.Filename,
		src,
		file.Size,
		contentType,
	)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, "Document uploaded", gin.H{
		"document": doc,
		"fileURL":  c.StorageService.GetURL(doc.FilePath),
	})
}

// List godoc
// @Summary The caller's documents grouped by file type
// @Tags documents
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/documents [get]
func (c *DocumentController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	studentID := user.UserID
	// Reviewers read a student's documents via ?studentId=.
	if user.Role != model.Student {
		if qid := util.MustParseUint(ctx.Query("studentId")); qid != 0 {
			studentID = qid
		}
	}

	grouped, err := c.DocumentService.ListByStudent(studentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, "", gin.H{"documents": grouped})
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed approved rejected"`
}

// SetStatus godoc
// @Summary Move a document through the review state machine
// @Description Approved documents are terminal; rejecting deletes the stored file and re-opens the slot.
// @Tags documents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Document id"
// @Param body body SetStatusRequest true "Target status"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/documents/{id}/status [put]
func (c *DocumentController) SetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SetStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	doc, err := c.DocumentService.SetStatus(ctx.Request.Context(), ctx.Param("id"), user.UserID, model.DocumentStatus(req.Status))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, "Status updated", gin.H{"document": doc})
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// AttachFeedback godoc
// @Summary Attach reviewer feedback to a document
// @Description A pending document implicitly becomes reviewed.
// @Tags documents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Document id"
// @Param body body FeedbackRequest true "Feedback text"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/documents/{id}/feedback [post]
func (c *DocumentController) AttachFeedback(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	doc, err := c.DocumentService.AttachFeedback(ctx.Param("id"), user.UserID, req.Feedback)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, "Feedback saved", gin.H{"document": doc})
}
