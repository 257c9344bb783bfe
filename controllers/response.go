package controllers

import (
	"MoodMapGo/config"
	"MoodMapGo/models"
	"MoodMapGo/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const msgInvalidBody = "Invalid request body"

// respondError 统一错误响应 {status, message}，内部原因只写日志
func respondError(c *gin.Context, err error) {
	apiErr := utils.AsAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		config.Logger.Errorw("请求处理失败",
			"error", err,
			"path", c.Request.URL.Path,
			"requestID", c.GetString("requestID"),
		)
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"status":  apiErr.Status,
		"message": apiErr.Message,
	})
}

// respondData 成功响应 {status, message, data}
func respondData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// currentUser 读取认证中间件写入的 uid 并确认用户仍然存在
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	uid := c.GetString("uid")
	if uid == "" {
		return nil, utils.NewAuthError(http.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := db.WithContext(c.Request.Context()).Where("id = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, utils.NewInternalError(err)
	}
	return &user, nil
}
