package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
)

// requireUser returns the caller's id or writes a 401
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Unauthenticated request", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return "", false
	}
	return userID, true
}

// bindJSON decodes the body into req or writes a 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return false
	}
	return true
}

// respondServiceError logs err at a level matching its status and writes the error response
func respondServiceError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)
	if status := apperrors.StatusFor(err); status == http.StatusInternalServerError {
		log.Error("Failed to "+action, err)
	} else {
		log.Warn("Request rejected", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
	}
	apperrors.RespondWithServiceError(c, err, action)
}
