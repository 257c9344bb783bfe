package controllers

import (
	"MoodMapGo/models"
	"MoodMapGo/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetUser 返回当前用户信息及日记数量
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := currentUser(c, uc.db)
	if err != nil {
		respondError(c, err)
		return
	}

	var entryCount int64
	if err := uc.db.WithContext(c.Request.Context()).
		Model(&models.DiaryEntry{}).
		Where("user_id = ?", user.ID).
		Count(&entryCount).Error; err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}

	respondData(c, http.StatusOK, "User fetched successfully", models.UserResponse{
		ID:         user.ID,
		Username:   user.GetDisplayName(),
		Email:      user.Email,
		CreatedAt:  user.CreatedAt,
		EntryCount: entryCount,
	})
}
