package controllers

import (
	"MoodMapGo/config"
	"MoodMapGo/models"
	"MoodMapGo/services"
	"MoodMapGo/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EmotionController 日期范围情绪报告
type EmotionController struct {
	db           *gorm.DB
	aggregations *services.AggregationService
	reports      *services.ReportService
}

func NewEmotionController(db *gorm.DB, aggregations *services.AggregationService, reports *services.ReportService) *EmotionController {
	return &EmotionController{db: db, aggregations: aggregations, reports: reports}
}

// EmotionReports 汇总区间内的情绪并生成描述与建议
func (ec *EmotionController) EmotionReports(c *gin.Context) {
	var req models.EmotionReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.NewValidationError(msgInvalidBody))
		return
	}

	user, err := currentUser(c, ec.db)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := ec.aggregations.Aggregate(c.Request.Context(), user.ID, req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}
	config.Logger.Debugw("情绪汇总完成",
		"userID", user.ID,
		"entries", report.EntryCount,
		"dominant", report.Dominant,
	)

	c.JSON(http.StatusOK, ec.reports.Assemble(c.Request.Context(), report))
}
