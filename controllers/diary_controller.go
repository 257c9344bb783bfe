package controllers

import (
	"MoodMapGo/models"
	"MoodMapGo/services"
	"MoodMapGo/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
)

const predictRequestKey = "predictRequest"

// DiaryController 日记与情绪识别
type DiaryController struct {
	db          *gorm.DB
	predictions *services.PredictionService
}

func NewDiaryController(db *gorm.DB, predictions *services.PredictionService) *DiaryController {
	return &DiaryController{db: db, predictions: predictions}
}

// ValidateText 在认证之前检查正文，空文本无论令牌是否有效都返回 400
func (dc *DiaryController) ValidateText(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondError(c, utils.NewValidationError(msgInvalidBody))
		return
	}
	if err := services.ValidateText(req.Text); err != nil {
		respondError(c, err)
		return
	}
	c.Set(predictRequestKey, req)
	c.Next()
}

// PredictDetails 识别情绪并保存日记条目
func (dc *DiaryController) PredictDetails(c *gin.Context) {
	req, ok := c.MustGet(predictRequestKey).(models.PredictRequest)
	if !ok {
		respondError(c, utils.NewValidationError(msgInvalidBody))
		return
	}

	user, err := currentUser(c, dc.db)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := dc.predictions.Predict(c.Request.Context(), user.ID, req.Text, req.SelectedDairyDate)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Prediction successful", models.PredictResponse{
		ID:          result.EntryID,
		Prediction:  result.Label,
		Probability: result.Distribution.Map(),
	})
}

// GetDiaryReports 返回当前用户的全部日记及各标签概率
func (dc *DiaryController) GetDiaryReports(c *gin.Context) {
	user, err := currentUser(c, dc.db)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := dc.predictions.ListEntries(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Diary reports fetched successfully", entries)
}
