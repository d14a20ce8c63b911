package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
	"github.com/outdoortrails/trails-hub-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder" binding:"required"` // gear, trips or avatars
}

// GeneratePresignedURL returns a URL the browser can PUT an image to
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req GeneratePresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Folder, req.Filename, req.ContentType)
	switch {
	case errors.Is(err, storage.ErrInvalidFolder):
		apperrors.BadRequest(c, apperrors.UploadInvalidFolder, "Folder must be one of gear, trips, avatars")
		return
	case errors.Is(err, storage.ErrInvalidContentType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	case err != nil:
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"user_id": userID,
			"folder":  req.Folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare the upload")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"user_id": userID,
		"folder":  req.Folder,
		"key":     response.Key,
	})
	c.JSON(http.StatusOK, gin.H{"data": response})
}
