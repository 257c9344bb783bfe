package services

import (
	"MoodMapGo/config"
	"MoodMapGo/metrics"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DescriptionUnavailable 生成失败时返回的占位描述
const DescriptionUnavailable = "Description is currently unavailable."

// NarrativeGenerator 外部文本生成服务
type NarrativeGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Suggestion 一条情绪管理建议
type Suggestion struct {
	Topic       string `json:"topic"`
	Explanation string `json:"explanation"`
	Steps       string `json:"steps"`
}

// EmotionReportResponse 情绪报告接口的响应体
type EmotionReportResponse struct {
	DetailedReports     map[string][]DatedValue `json:"detailed_reports"`
	OverallReport       map[string]float64      `json:"overall_report"`
	DominantEmotions    []string                `json:"dominant_emotions"`
	DetailedReportsDesc string                  `json:"detailed_reports_desc"`
	OverallReportDesc   string                  `json:"overall_report_desc"`
	Suggestions         []Suggestion            `json:"suggestions"`
}

// ReportService 把汇总结果交给 LLM 生成描述和建议，LLM 失败不影响其余数据返回
type ReportService struct {
	generator NarrativeGenerator
	cache     NarrativeCache
	timeout   time.Duration
}

// NewReportService generator 为 nil 时所有描述直接降级；cache 可为 nil
func NewReportService(generator NarrativeGenerator, cache NarrativeCache, timeout time.Duration) *ReportService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReportService{
		generator: generator,
		cache:     cache,
		timeout:   timeout,
	}
}

// Assemble 三个生成请求并发执行，结果通过返回值传递
func (s *ReportService) Assemble(ctx context.Context, report *AggregateReport) *EmotionReportResponse {
	resp := &EmotionReportResponse{
		DetailedReports:     report.Detailed,
		OverallReport:       report.Overall,
		DominantEmotions:    report.Dominant,
		DetailedReportsDesc: DescriptionUnavailable,
		OverallReportDesc:   DescriptionUnavailable,
		Suggestions:         []Suggestion{},
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if desc, ok := s.describe(ctx, "detailed", descriptionPrompt("detailed reports", formatDetailedData(report))); ok {
			resp.DetailedReportsDesc = desc
		}
	}()
	go func() {
		defer wg.Done()
		if desc, ok := s.describe(ctx, "overall", descriptionPrompt("overall report", formatOverallData(report))); ok {
			resp.OverallReportDesc = desc
		}
	}()
	go func() {
		defer wg.Done()
		if suggestions, ok := s.suggest(ctx, report.Dominant); ok {
			resp.Suggestions = suggestions
		}
	}()
	wg.Wait()

	return resp
}

func (s *ReportService) describe(ctx context.Context, kind, prompt string) (string, bool) {
	var desc string
	ok := s.narrate(ctx, kind, descriptionSystemPrompt, prompt, func(raw string) error {
		var err error
		desc, err = parseDescription(raw)
		return err
	})
	return desc, ok
}

func (s *ReportService) suggest(ctx context.Context, emotions []string) ([]Suggestion, bool) {
	if len(emotions) == 0 {
		return nil, false
	}
	var suggestions []Suggestion
	ok := s.narrate(ctx, "suggestions", suggestionsSystemPrompt, suggestionsPrompt(emotions), func(raw string) error {
		var err error
		suggestions, err = parseSuggestions(raw)
		return err
	})
	return suggestions, ok
}

// narrate 先查缓存，未命中再调用生成服务；accept 解析成功才算成功并写入缓存
func (s *ReportService) narrate(ctx context.Context, kind, systemPrompt, prompt string, accept func(raw string) error) bool {
	key := cacheKey(kind, systemPrompt, prompt)

	if s.cache != nil {
		raw, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			config.Logger.Warnw("读取描述缓存失败", "error", err, "kind", kind)
		} else if hit && accept(raw) == nil {
			metrics.NarrativeRequestsTotal.WithLabelValues(kind, "cached").Inc()
			return true
		}
	}

	if s.generator == nil {
		metrics.NarrativeRequestsTotal.WithLabelValues(kind, "degraded").Inc()
		return false
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.generator.Generate(callCtx, systemPrompt, prompt)
	metrics.NarrativeDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err == nil {
		err = accept(raw)
	}
	if err != nil {
		config.Logger.Warnw("生成描述失败，返回占位内容",
			"error", err,
			"kind", kind,
		)
		metrics.NarrativeRequestsTotal.WithLabelValues(kind, "degraded").Inc()
		return false
	}
	metrics.NarrativeRequestsTotal.WithLabelValues(kind, "ok").Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			config.Logger.Warnw("写入描述缓存失败", "error", err, "kind", kind)
		}
	}
	return true
}

func cacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// parseDescription 优先解析 {"description": ...}，否则原样返回文本
func parseDescription(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	var obj struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		raw = strings.TrimSpace(obj.Description)
	}
	if raw == "" {
		return "", errors.New("empty description")
	}
	return raw, nil
}

var suggestionArrayPattern = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

// parseSuggestions 兼容 {"suggestions": [...]} 与正文中夹带的 JSON 数组
func parseSuggestions(raw string) ([]Suggestion, error) {
	var obj struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && len(obj.Suggestions) > 0 {
		return validSuggestions(obj.Suggestions)
	}

	match := suggestionArrayPattern.FindString(raw)
	if match == "" {
		return nil, errors.New("no suggestions found in response")
	}
	var list []Suggestion
	if err := json.Unmarshal([]byte(match), &list); err != nil {
		return nil, err
	}
	return validSuggestions(list)
}

func validSuggestions(list []Suggestion) ([]Suggestion, error) {
	out := make([]Suggestion, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s.Topic) == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.New("suggestions have no topics")
	}
	return out, nil
}
