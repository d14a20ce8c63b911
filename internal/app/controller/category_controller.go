package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type ReorderCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids" binding:"required"`
}

// RenameCategoryRequest uses the dashboard client's camelCase field names.
// EquipmentIDs is a pointer so a missing or null list can be told apart from [].
type RenameCategoryRequest struct {
	NewName      string    `json:"newName"`
	EquipmentIDs *[]string `json:"equipmentIds"`
}

type DeleteCategoryWithEquipmentRequest struct {
	EquipmentIDs *[]string `json:"equipmentIds"`
}

// ListCategories returns the caller's categories with gear counts
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	categories, err := ctrl.categoryService.ListCategories(userID)
	if err != nil {
		respondServiceError(c, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// CreateCategory
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.CreateCategory(userID, req.Name)
	if err != nil {
		respondServiceError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

// ReorderCategories persists the dashboard order
// PUT /api/v1/categories/order
func (ctrl *CategoryController) ReorderCategories(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req ReorderCategoriesRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.categoryService.ReorderCategories(userID, req.CategoryIDs); err != nil {
		respondServiceError(c, err, "reorder categories")
		return
	}

	categories, err := ctrl.categoryService.ListCategories(userID)
	if err != nil {
		respondServiceError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// DeleteCategory removes the category only
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// RenameCategory renames a category and the listed equipment in one transaction
// POST /api/v1/categories/:id/rename
func (ctrl *CategoryController) RenameCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req RenameCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.EquipmentIDs == nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "equipmentIds must be an array")
		return
	}

	categoryID := c.Param("id")
	category, err := ctrl.categoryService.RenameCategoryWithGear(userID, categoryID, req.NewName, *req.EquipmentIDs)
	if err != nil {
		respondServiceError(c, err, "rename category")
		return
	}

	log.Info("Category renamed with equipment", map[string]interface{}{
		"user_id":     userID,
		"category_id": categoryID,
		"gear_count":  len(*req.EquipmentIDs),
	})
	c.JSON(http.StatusOK, gin.H{"data": category})
}

// DeleteCategoryWithEquipment deletes a category and the listed equipment in one transaction
// POST /api/v1/categories/:id/delete-with-equipment
func (ctrl *CategoryController) DeleteCategoryWithEquipment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req DeleteCategoryWithEquipmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.EquipmentIDs == nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "equipmentIds must be an array")
		return
	}

	result, err := ctrl.categoryService.DeleteCategoryWithGear(userID, c.Param("id"), *req.EquipmentIDs)
	if err != nil {
		respondServiceError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    result,
		"message": fmt.Sprintf("Category deleted with %d equipment", result.DeletedGearCount),
	})
}
