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

// AuthController 认证控制器
type AuthController struct {
	db  *gorm.DB
	jwt *utils.JWTManager
}

func NewAuthController(db *gorm.DB, jwt *utils.JWTManager) *AuthController {
	return &AuthController{db: db, jwt: jwt}
}

// Register 注册新用户，邮箱唯一
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.NewValidationError(msgInvalidBody))
		return
	}
	req.Normalize()
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(c, utils.NewValidationError("Username, email, and password are required"))
		return
	}

	ctx := c.Request.Context()
	exists, err := ac.emailExists(c, req.Email)
	if err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}
	if exists {
		respondError(c, utils.NewValidationError("User already exists"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}

	user := models.User{
		ID:       utils.GenerateID(),
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}
	if err := ac.db.WithContext(ctx).Create(&user).Error; err != nil {
		// 并发注册时由唯一索引兜底
		if exists, checkErr := ac.emailExists(c, req.Email); checkErr == nil && exists {
			respondError(c, utils.NewValidationError("User already exists"))
			return
		}
		config.Logger.Errorw("用户创建失败", "error", err, "email", req.Email)
		respondError(c, utils.NewInternalError(err))
		return
	}

	config.Logger.Infow("用户创建成功", "userID", user.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login 邮箱密码登录，返回访问令牌
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.NewValidationError(msgInvalidBody))
		return
	}
	req.Normalize()
	invalid := utils.NewAuthError(http.StatusUnauthorized, "Invalid email or password")

	var user models.User
	err := ac.db.WithContext(c.Request.Context()).
		Where("email = ?", req.Email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, invalid)
		return
	}
	if err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		respondError(c, invalid)
		return
	}

	token, err := ac.jwt.GenerateToken(user.ID)
	if err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}

	config.Logger.Infow("用户登录", "userID", user.ID)
	respondData(c, http.StatusOK, "Login successful", models.LoginResponse{AccessToken: token})
}

func (ac *AuthController) emailExists(c *gin.Context, email string) (bool, error) {
	var count int64
	err := ac.db.WithContext(c.Request.Context()).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
