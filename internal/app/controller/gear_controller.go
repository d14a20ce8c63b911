package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GearController struct {
	gearService service.GearService
}

func NewGearController(gearService service.GearService) *GearController {
	return &GearController{
		gearService: gearService,
	}
}

// ListGear returns the caller's gear, optionally filtered by ?category=
// GET /api/v1/gear
func (ctrl *GearController) ListGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var category *string
	if value, exists := c.GetQuery("category"); exists {
		category = &value
	}

	gear, err := ctrl.gearService.ListGear(userID, category)
	if err != nil {
		respondServiceError(c, err, "list gear")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gear})
}

// POST /api/v1/gear
func (ctrl *GearController) CreateGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.GearInput
	if !bindJSON(c, &req) {
		return
	}

	gear, err := ctrl.gearService.CreateGear(userID, req)
	if err != nil {
		respondServiceError(c, err, "create gear")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gear})
}

// GET /api/v1/gear/:id
func (ctrl *GearController) GetGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	gear, err := ctrl.gearService.GetGear(userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get gear")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gear})
}

// PUT /api/v1/gear/:id
func (ctrl *GearController) UpdateGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.GearInput
	if !bindJSON(c, &req) {
		return
	}

	gear, err := ctrl.gearService.UpdateGear(userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "update gear")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gear})
}

// DELETE /api/v1/gear/:id
func (ctrl *GearController) DeleteGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := ctrl.gearService.DeleteGear(userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete gear")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted"})
}

// ExportGear downloads the caller's gear list as an XLSX workbook
// GET /api/v1/gear/export
func (ctrl *GearController) ExportGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	buf, err := ctrl.gearService.ExportGear(userID)
	if err != nil {
		respondServiceError(c, err, "export gear")
		return
	}

	filename := fmt.Sprintf("gear-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
