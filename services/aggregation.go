package services

import (
	"MoodMapGo/models"
	"MoodMapGo/utils"
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

const (
	MsgDateRangeRequired = "Start date and end date are required"
	MsgDateRangeOrder    = "Start date must not be after end date"
	MsgNoEntriesInRange  = "No diary entries found for the given date range"

	// DominantEmotionCount 排名靠前的情绪数量
	DominantEmotionCount = 3
)

// DatedValue 某一天某个标签的概率
type DatedValue struct {
	Date  models.Date `json:"date"`
	Value float64     `json:"value"`
}

// AggregateReport 日期范围内的情绪汇总，不落库
type AggregateReport struct {
	Labels     []string                // 出现过的标签，字典序
	Detailed   map[string][]DatedValue // 按日期升序，同一天的多条记录都保留
	Overall    map[string]float64      // 各标签均值
	Dominant   []string                // 均值最高的前三个标签
	EntryCount int
}

// AggregateEntries 纯函数：相同输入总是得到相同结果。
// 只统计实际出现的标签，区间内从未出现的标签不会以 0 出现在结果中。
func AggregateEntries(entries []models.DiaryEntry) *AggregateReport {
	sorted := make([]models.DiaryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DiaryDate.Before(sorted[j].DiaryDate)
	})

	report := &AggregateReport{
		Detailed:   make(map[string][]DatedValue),
		Overall:    make(map[string]float64),
		EntryCount: len(sorted),
	}
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, entry := range sorted {
		for _, r := range entry.EmotionReports {
			report.Detailed[r.EmotionName] = append(report.Detailed[r.EmotionName], DatedValue{
				Date:  entry.DiaryDate,
				Value: r.EmotionPercentage,
			})
			sums[r.EmotionName] += r.EmotionPercentage
			counts[r.EmotionName]++
		}
	}

	for label, n := range counts {
		report.Labels = append(report.Labels, label)
		report.Overall[label] = sums[label] / float64(n)
	}
	sort.Strings(report.Labels)
	report.Dominant = RankEmotions(report.Overall, DominantEmotionCount)
	return report
}

// RankEmotions 按均值降序取前 k 个，均值相同时按标签字典序
func RankEmotions(means map[string]float64, k int) []string {
	labels := make([]string, 0, len(means))
	for label := range means {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if means[labels[i]] != means[labels[j]] {
			return means[labels[i]] > means[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > k {
		labels = labels[:k]
	}
	return labels
}

// ParseDateRange 校验日期区间，两端都包含
func ParseDateRange(startStr, endStr string) (models.Date, models.Date, error) {
	if strings.TrimSpace(startStr) == "" || strings.TrimSpace(endStr) == "" {
		return models.Date{}, models.Date{}, utils.NewValidationError(MsgDateRangeRequired)
	}
	start, err := models.ParseDate(startStr)
	if err != nil {
		return models.Date{}, models.Date{}, utils.NewValidationError(MsgInvalidDate)
	}
	end, err := models.ParseDate(endStr)
	if err != nil {
		return models.Date{}, models.Date{}, utils.NewValidationError(MsgInvalidDate)
	}
	if start.After(end) {
		return models.Date{}, models.Date{}, utils.NewValidationError(MsgDateRangeOrder)
	}
	return start, end, nil
}

// AggregationService 读取日期范围内的日记并汇总，只读
type AggregationService struct {
	db *gorm.DB
}

func NewAggregationService(db *gorm.DB) *AggregationService {
	return &AggregationService{db: db}
}

func (s *AggregationService) Aggregate(ctx context.Context, userID, startStr, endStr string) (*AggregateReport, error) {
	start, end, err := ParseDateRange(startStr, endStr)
	if err != nil {
		return nil, err
	}

	var entries []models.DiaryEntry
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND diary_date BETWEEN ? AND ?", userID, start, end).
		Preload("EmotionReports", func(db *gorm.DB) *gorm.DB {
			return db.Order("emotion_name asc")
		}).
		Order("diary_date asc, created_at asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, utils.NewInternalError(fmt.Errorf("query diary entries: %w", err))
	}
	if len(entries) == 0 {
		return nil, utils.NewNotFoundError(MsgNoEntriesInRange)
	}

	return AggregateEntries(entries), nil
}
