package controller

import (
	"net/http"
	"strings"
	"testing"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripController_Lifecycle(t *testing.T) {
	ts := setupControllerTest(t)
	tent := ts.createGear(t, "U1", "Tent", "")
	stove := ts.createGear(t, "U1", "Stove", "")

	w := ts.do(t, "POST", "/api/v1/trips", "U1", map[string]interface{}{
		"title":    "Jade Mountain Main Peak",
		"location": "Yushan",
		"date":     "2026-03-14T00:00:00Z",
		"tags":     []string{"3000m"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var trip model.Trip
	decodeData(t, w, &trip)
	assert.True(t, strings.HasPrefix(trip.Slug, "jade-mountain-main-peak-"))

	w = ts.do(t, "PUT", "/api/v1/trips/"+trip.ID+"/gear", "U1", map[string]interface{}{
		"gear_ids": []string{tent.ID, stove.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var packed []model.Gear
	decodeData(t, w, &packed)
	assert.Len(t, packed, 2)

	w = ts.do(t, "GET", "/api/v1/trips/"+trip.ID+"/gear", "U1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &packed)
	assert.Len(t, packed, 2)

	// public page needs no token
	w = ts.do(t, "GET", "/api/v1/public/trips/"+trip.Slug, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail service.TripDetail
	decodeData(t, w, &detail)
	assert.Equal(t, trip.ID, detail.ID)
	assert.Len(t, detail.Gear, 2)

	w = ts.do(t, "GET", "/api/v1/trips", "U1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trips []model.Trip
	decodeData(t, w, &trips)
	assert.Len(t, trips, 1)

	w = ts.do(t, "DELETE", "/api/v1/trips/"+trip.ID, "U1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/api/v1/public/trips/"+trip.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripController_SetGearRejectsForeignGear(t *testing.T) {
	ts := setupControllerTest(t)
	mine := ts.createGear(t, "U1", "Tent", "")
	theirs := ts.createGear(t, "U2", "Stove", "")

	w := ts.do(t, "POST", "/api/v1/trips", "U1", `{"title":"Hehuan"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var trip model.Trip
	decodeData(t, w, &trip)

	w = ts.do(t, "PUT", "/api/v1/trips/"+trip.ID+"/gear", "U1", map[string]interface{}{
		"gear_ids": []string{mine.ID, theirs.ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "PUT", "/api/v1/trips/"+trip.ID+"/gear", "U1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "PUT", "/api/v1/trips/"+trip.ID+"/gear", "U2", `{"gear_ids":[]}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var links int64
	require.NoError(t, ts.db.Model(&model.TripGear{}).Where("trip_id = ?", trip.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestTripController_Validation(t *testing.T) {
	ts := setupControllerTest(t)

	w := ts.do(t, "POST", "/api/v1/trips", "U1", `{"title":"","images":["not-a-url"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decodeError(t, w).Fields
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "images[0]")
}
