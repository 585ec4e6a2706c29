package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tableside/models"
	"tableside/utils"
)

// DishController is plain catalog CRUD. Orders never read these rows after
// creation; they keep their own snapshots.
type DishController struct {
	DB *gorm.DB
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db}
}

func (dc *DishController) CreateDish(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		Price       int    `json:"price" binding:"required"`
		Description string `json:"description"`
		Image       string `json:"image"`
		CategoryID  *uint  `json:"category_id"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dish := models.Dish{
		Name:        body.Name,
		Price:       body.Price,
		Description: body.Description,
		Image:       body.Image,
		CategoryID:  body.CategoryID,
		Status:      models.DishStatusAvailable,
	}
	if body.Status != "" {
		dish.Status = body.Status
	}

	if err := dc.DB.Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

func (dc *DishController) GetAllDishes(c *gin.Context) {
	var dishes []models.Dish
	if err := dc.DB.Preload("Category").Order("created_at desc").Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

func (dc *DishController) GetDishByID(c *gin.Context) {
	dishID, err := parseIDParam(c, "dish_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := dc.DB.Preload("Category").First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("dish not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish detail", dish)
}

func (dc *DishController) UpdateDish(c *gin.Context) {
	dishID, err := parseIDParam(c, "dish_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("dish not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Price       *int    `json:"price"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
		CategoryID  *uint   `json:"category_id"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		dish.Name = *body.Name
	}
	if body.Price != nil {
		dish.Price = *body.Price
	}
	if body.Description != nil {
		dish.Description = *body.Description
	}
	if body.Image != nil {
		dish.Image = *body.Image
	}
	if body.CategoryID != nil {
		dish.CategoryID = body.CategoryID
	}
	if body.Status != nil {
		dish.Status = *body.Status
	}

	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

func (dc *DishController) DeleteDish(c *gin.Context) {
	dishID, err := parseIDParam(c, "dish_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result := dc.DB.Delete(&models.Dish{}, dishID)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("dish not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"id": dishID})
}
