package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outdoortrails/trails-hub-backend/config"
	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
	"github.com/outdoortrails/trails-hub-backend/internal/db"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
	"github.com/outdoortrails/trails-hub-backend/internal/storage"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	"github.com/outdoortrails/trails-hub-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "controller-test-secret"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupControllerTest(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	categoryRepo := repository.NewCategoryRepository(testDB)
	gearRepo := repository.NewGearRepository(testDB)
	tripRepo := repository.NewTripRepository(testDB)
	profileRepo := repository.NewProfileRepository(testDB)
	validator := validation.New()

	categoryController := NewCategoryController(service.NewCategoryService(testDB, categoryRepo, gearRepo, nil))
	gearController := NewGearController(service.NewGearService(testDB, gearRepo, categoryRepo, validator, nil))
	tripController := NewTripController(service.NewTripService(testDB, tripRepo, gearRepo, validator, nil))
	profileController := NewProfileController(service.NewProfileService(profileRepo, gearRepo, tripRepo, nil, validator))
	uploadController := NewUploadController(storage.NewS3Storage(&config.S3Config{
		Region:          "ap-northeast-1",
		Bucket:          "trails-test",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	}))

	auth := middleware.NewAuthMiddleware(testJWTSecret, "")

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		profiles := v1.Group("/profiles")
		profiles.GET("/me", auth.Authenticate(), profileController.GetMe)
		profiles.PUT("/me", auth.Authenticate(), profileController.UpdateMe)
		profiles.GET("/:username", profileController.GetPublicProfile)

		categories := v1.Group("/categories", auth.Authenticate())
		categories.GET("", categoryController.ListCategories)
		categories.POST("", categoryController.CreateCategory)
		categories.PUT("/order", categoryController.ReorderCategories)
		categories.GET("/:id", categoryController.GetCategory)
		categories.DELETE("/:id", categoryController.DeleteCategory)
		categories.POST("/:id/rename", categoryController.RenameCategory)
		categories.POST("/:id/delete-with-equipment", categoryController.DeleteCategoryWithEquipment)

		gear := v1.Group("/gear", auth.Authenticate())
		gear.GET("", gearController.ListGear)
		gear.POST("", gearController.CreateGear)
		gear.GET("/export", gearController.ExportGear)
		gear.GET("/:id", gearController.GetGear)
		gear.PUT("/:id", gearController.UpdateGear)
		gear.DELETE("/:id", gearController.DeleteGear)

		trips := v1.Group("/trips", auth.Authenticate())
		trips.GET("", tripController.ListTrips)
		trips.POST("", tripController.CreateTrip)
		trips.GET("/:id", tripController.GetTrip)
		trips.PUT("/:id", tripController.UpdateTrip)
		trips.DELETE("/:id", tripController.DeleteTrip)
		trips.GET("/:id/gear", tripController.ListTripGear)
		trips.PUT("/:id/gear", tripController.SetTripGear)

		v1.GET("/public/trips/:slug", tripController.GetPublicTrip)
		v1.POST("/upload/presigned-url", auth.Authenticate(), uploadController.GeneratePresignedURL)
	}

	return &testServer{router: router, db: testDB}
}

func tokenFor(t *testing.T, userID string) string {
	token, err := util.GenerateToken(userID, userID+"@example.com", testJWTSecret, "", time.Hour)
	require.NoError(t, err)
	return token
}

// do sends body (raw string or value to marshal) as userID; an empty userID sends no token
func (ts *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) createCategory(t *testing.T, ownerID, name string) *model.Category {
	category := &model.Category{OwnerID: ownerID, Name: name}
	require.NoError(t, ts.db.Create(category).Error)
	return category
}

func (ts *testServer) createGear(t *testing.T, ownerID, name, category string) *model.Gear {
	gear := &model.Gear{OwnerID: ownerID, Name: name, Category: category}
	require.NoError(t, ts.db.Create(gear).Error)
	return gear
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
