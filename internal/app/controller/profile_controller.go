package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// GetMe returns the caller's profile, creating it on first sign-in
// GET /api/v1/profiles/me
func (ctrl *ProfileController) GetMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	email, _ := middleware.GetUserEmail(c)

	profile, err := ctrl.profileService.GetOrCreateMe(userID, email)
	if err != nil {
		respondServiceError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// PUT /api/v1/profiles/me
func (ctrl *ProfileController) UpdateMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.ProfileInput
	if !bindJSON(c, &req) {
		return
	}

	profile, err := ctrl.profileService.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// GetPublicProfile
// GET /api/v1/profiles/:username
func (ctrl *ProfileController) GetPublicProfile(c *gin.Context) {
	profile, err := ctrl.profileService.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}
