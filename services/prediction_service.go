package services

import (
	"MoodMapGo/classifier"
	"MoodMapGo/config"
	"MoodMapGo/metrics"
	"MoodMapGo/models"
	"MoodMapGo/utils"
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	MsgTextRequired      = "Text input is required"
	MsgDiaryDateRequired = "Selected dairy date is required"
	MsgInvalidDate       = "Invalid date format. Use YYYY-MM-DD."
)

// EmotionClassifier 文本到情绪分布的映射，实现必须可并发调用
type EmotionClassifier interface {
	Classify(text string) classifier.Distribution
}

// PredictionService 负责情绪识别与日记条目持久化
type PredictionService struct {
	db         *gorm.DB
	classifier EmotionClassifier
}

// PredictionResult 一次预测的结果
type PredictionResult struct {
	EntryID      string
	Label        string
	Probability  float64
	Distribution classifier.Distribution
}

func NewPredictionService(db *gorm.DB, c EmotionClassifier) *PredictionService {
	return &PredictionService{db: db, classifier: c}
}

// ValidateText 空文本或纯空白文本视为缺失
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return utils.NewValidationError(MsgTextRequired)
	}
	return nil
}

// ParseDiaryDate 仅接受 YYYY-MM-DD
func ParseDiaryDate(s string) (models.Date, error) {
	if strings.TrimSpace(s) == "" {
		return models.Date{}, utils.NewValidationError(MsgDiaryDateRequired)
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, utils.NewValidationError(MsgInvalidDate)
	}
	return d, nil
}

// PredictDistribution 返回文本在全部标签上的分布
func (s *PredictionService) PredictDistribution(text string) (classifier.Distribution, error) {
	if err := ValidateText(text); err != nil {
		return classifier.Distribution{}, err
	}
	start := time.Now()
	dist := s.classifier.Classify(text)
	metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	return dist, nil
}

// PredictLabel 返回概率最高的标签
func (s *PredictionService) PredictLabel(text string) (string, error) {
	dist, err := s.PredictDistribution(text)
	if err != nil {
		return "", err
	}
	label, _ := dist.Dominant()
	return label, nil
}

// Predict 识别情绪并在同一事务中写入日记条目及每个标签的概率
func (s *PredictionService) Predict(ctx context.Context, userID, text, diaryDate string) (*PredictionResult, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	date, err := ParseDiaryDate(diaryDate)
	if err != nil {
		return nil, err
	}

	dist, err := s.PredictDistribution(text)
	if err != nil {
		return nil, err
	}
	label, probability := dist.Dominant()

	entry := models.DiaryEntry{
		ID:                    utils.GenerateID(),
		UserID:                userID,
		Content:               text,
		MainEmotion:           label,
		MainEmotionPercentage: probability,
		DiaryDate:             date,
	}
	reports := make([]models.EmotionReport, 0, dist.Len())
	for i := 0; i < dist.Len(); i++ {
		name, p := dist.At(i)
		reports = append(reports, models.EmotionReport{
			ID:                utils.GenerateID(),
			DiaryID:           entry.ID,
			EmotionName:       name,
			EmotionPercentage: p,
		})
	}

	if err := s.persist(ctx, &entry, reports); err != nil {
		config.Logger.Errorw("日记条目保存失败",
			"error", err,
			"userID", userID,
		)
		return nil, utils.NewInternalError(err)
	}

	metrics.PredictionsTotal.WithLabelValues(label).Inc()
	config.Logger.Infow("情绪识别完成",
		"userID", userID,
		"entryID", entry.ID,
		"emotion", label,
		"probability", probability,
	)

	return &PredictionResult{
		EntryID:      entry.ID,
		Label:        label,
		Probability:  probability,
		Distribution: dist,
	}, nil
}

func (s *PredictionService) persist(ctx context.Context, entry *models.DiaryEntry, reports []models.EmotionReport) (err error) {
	// 开启事务
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = fmt.Errorf("panic during diary insert: %v", r)
		}
	}()

	if err := tx.Omit("EmotionReports").Create(entry).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("insert diary entry: %w", err)
	}
	if err := tx.Create(&reports).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("insert emotion reports: %w", err)
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit diary entry: %w", err)
	}
	entry.EmotionReports = reports
	return nil
}

// ListEntries 返回用户全部日记条目（含情绪报告），按日记日期排序
func (s *PredictionService) ListEntries(ctx context.Context, userID string) ([]models.DiaryEntry, error) {
	entries := []models.DiaryEntry{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("EmotionReports", func(db *gorm.DB) *gorm.DB {
			return db.Order("emotion_name asc")
		}).
		Order("diary_date asc, created_at asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, utils.NewInternalError(fmt.Errorf("list diary entries: %w", err))
	}
	return entries, nil
}
