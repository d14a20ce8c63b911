package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
)

type TripController struct {
	tripService service.TripService
}

func NewTripController(tripService service.TripService) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

type SetTripGearRequest struct {
	GearIDs []string `json:"gear_ids" binding:"required"`
}

// GET /api/v1/trips
func (ctrl *TripController) ListTrips(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	trips, err := ctrl.tripService.ListTrips(userID)
	if err != nil {
		respondServiceError(c, err, "list trips")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trips})
}

// POST /api/v1/trips
func (ctrl *TripController) CreateTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.TripInput
	if !bindJSON(c, &req) {
		return
	}

	trip, err := ctrl.tripService.CreateTrip(userID, req)
	if err != nil {
		respondServiceError(c, err, "create trip")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": trip})
}

// GET /api/v1/trips/:id
func (ctrl *TripController) GetTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	trip, err := ctrl.tripService.GetTrip(userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get trip")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trip})
}

// PUT /api/v1/trips/:id
func (ctrl *TripController) UpdateTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.TripInput
	if !bindJSON(c, &req) {
		return
	}

	trip, err := ctrl.tripService.UpdateTrip(userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "update trip")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trip})
}

// DELETE /api/v1/trips/:id
func (ctrl *TripController) DeleteTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := ctrl.tripService.DeleteTrip(userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete trip")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// GET /api/v1/trips/:id/gear
func (ctrl *TripController) ListTripGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	gear, err := ctrl.tripService.ListTripGear(userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "list trip gear")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gear})
}

// SetTripGear replaces the gear packed for a trip
// PUT /api/v1/trips/:id/gear
func (ctrl *TripController) SetTripGear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req SetTripGearRequest
	if !bindJSON(c, &req) {
		return
	}

	gear, err := ctrl.tripService.SetTripGear(userID, c.Param("id"), req.GearIDs)
	if err != nil {
		respondServiceError(c, err, "update trip gear")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gear})
}

// GetPublicTrip renders a shared trip page; no authentication
// GET /api/v1/public/trips/:slug
func (ctrl *TripController) GetPublicTrip(c *gin.Context) {
	detail, err := ctrl.tripService.GetTripBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "get trip")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}
