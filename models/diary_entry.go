package models

import "time"

// DiaryEntry 日记条目，创建后不再修改
type DiaryEntry struct {
	ID                    string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID                string    `gorm:"type:varchar(50);not null;index:idx_diary_user_date" json:"user_id"`
	Content               string    `gorm:"type:text;not null" json:"content"`
	MainEmotion           string    `gorm:"type:varchar(50)" json:"main_emotion"`
	MainEmotionPercentage float64   `json:"main_emotion_percentage"`
	DiaryDate             Date      `gorm:"type:varchar(10);not null;index:idx_diary_user_date" json:"diary_date"`
	CreatedAt             time.Time `json:"created_at"`

	EmotionReports []EmotionReport `gorm:"foreignKey:DiaryID;constraint:OnDelete:CASCADE" json:"emotion_reports"`
}

// EmotionReport 单个条目在某一情绪标签上的概率
type EmotionReport struct {
	ID                string  `gorm:"type:varchar(50);primaryKey" json:"-"`
	DiaryID           string  `gorm:"type:varchar(50);not null;index" json:"-"`
	EmotionName       string  `gorm:"type:varchar(50);not null" json:"emotion_name"`
	EmotionPercentage float64 `json:"emotion_percentage"`
}
