package services

import (
	"MoodMapGo/models"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeGenerator struct {
	calls   atomic.Int32
	respond func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls.Add(1)
	return f.respond(ctx, systemPrompt, userPrompt)
}

func jsonGenerator() *fakeGenerator {
	return &fakeGenerator{respond: func(_ context.Context, systemPrompt, userPrompt string) (string, error) {
		if systemPrompt == suggestionsSystemPrompt {
			return `{"suggestions":[{"topic":"Journal","explanation":"Writing helps.","steps":"Write daily."}]}`, nil
		}
		if strings.Contains(userPrompt, "overall report") {
			return `{"description":"Mostly calm overall."}`, nil
		}
		return `{"description":"Mood rose over the week."}`, nil
	}}
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache { return &memoryCache{data: make(map[string]string)} }

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func sampleReport() *AggregateReport {
	d1 := models.NewDate(2024, time.January, 1)
	d2 := models.NewDate(2024, time.January, 2)
	return AggregateEntries([]models.DiaryEntry{
		entryOn(d1, map[string]float64{"joy": 0.7, "fear": 0.2, "sadness": 0.1}),
		entryOn(d2, map[string]float64{"joy": 0.5, "fear": 0.4, "sadness": 0.1}),
	})
}

func TestAssembleWithNarratives(t *testing.T) {
	gen := jsonGenerator()
	svc := NewReportService(gen, nil, time.Second)
	report := sampleReport()

	resp := svc.Assemble(context.Background(), report)
	assert.Equal(t, report.Detailed, resp.DetailedReports)
	assert.Equal(t, report.Overall, resp.OverallReport)
	assert.Equal(t, []string{"joy", "fear", "sadness"}, resp.DominantEmotions)
	assert.Equal(t, "Mood rose over the week.", resp.DetailedReportsDesc)
	assert.Equal(t, "Mostly calm overall.", resp.OverallReportDesc)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Journal", resp.Suggestions[0].Topic)
	assert.EqualValues(t, 3, gen.calls.Load())
}

func TestAssembleDegradesOnGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{respond: func(context.Context, string, string) (string, error) {
		return "", errors.New("upstream unavailable")
	}}
	svc := NewReportService(gen, nil, time.Second)
	report := sampleReport()

	resp := svc.Assemble(context.Background(), report)
	assert.Equal(t, DescriptionUnavailable, resp.DetailedReportsDesc)
	assert.Equal(t, DescriptionUnavailable, resp.OverallReportDesc)
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, resp.Suggestions)
	assert.Equal(t, report.Overall, resp.OverallReport)
}

func TestAssembleWithoutGenerator(t *testing.T) {
	svc := NewReportService(nil, nil, 0)
	resp := svc.Assemble(context.Background(), sampleReport())
	assert.Equal(t, DescriptionUnavailable, resp.DetailedReportsDesc)
	assert.Equal(t, DescriptionUnavailable, resp.OverallReportDesc)
	assert.Empty(t, resp.Suggestions)
}

func TestAssembleTimesOutSlowGenerator(t *testing.T) {
	gen := &fakeGenerator{respond: func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	svc := NewReportService(gen, nil, 50*time.Millisecond)

	start := time.Now()
	resp := svc.Assemble(context.Background(), sampleReport())
	assert.Less(t, time.Since(start), time.Second, "calls must run concurrently and respect the timeout")
	assert.Equal(t, DescriptionUnavailable, resp.OverallReportDesc)
}

func TestAssembleUsesCache(t *testing.T) {
	gen := jsonGenerator()
	cache := newMemoryCache()
	svc := NewReportService(gen, cache, time.Second)
	report := sampleReport()

	first := svc.Assemble(context.Background(), report)
	assert.EqualValues(t, 3, gen.calls.Load())

	second := svc.Assemble(context.Background(), report)
	assert.EqualValues(t, 3, gen.calls.Load())
	assert.Equal(t, first, second)
}

func TestAssembleDoesNotCacheFailures(t *testing.T) {
	gen := &fakeGenerator{respond: func(context.Context, string, string) (string, error) {
		return "not json and no array", nil
	}}
	cache := newMemoryCache()
	svc := NewReportService(gen, cache, time.Second)

	resp := svc.Assemble(context.Background(), sampleReport())
	assert.Empty(t, resp.Suggestions)
	// 描述接受纯文本，建议解析失败不写缓存
	assert.Equal(t, "not json and no array", resp.OverallReportDesc)
	assert.Len(t, cache.data, 2)
}

func TestParseSuggestions(t *testing.T) {
	got, err := parseSuggestions(`{"suggestions":[{"topic":"Walk","explanation":"Move.","steps":"Go outside."}]}`)
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{Topic: "Walk", Explanation: "Move.", Steps: "Go outside."}}, got)

	got, err = parseSuggestions("Sure! Here you go:\n[{\"topic\":\"Sleep\",\"explanation\":\"Rest.\",\"steps\":\"Bed by 11.\"}]\nHope it helps.")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sleep", got[0].Topic)

	_, err = parseSuggestions(`{"suggestions":[{"topic":"","explanation":"x","steps":"y"}]}`)
	assert.Error(t, err)

	_, err = parseSuggestions("no structure here")
	assert.Error(t, err)
}

func TestParseDescription(t *testing.T) {
	got, err := parseDescription(`{"description":"  Calm week. "}`)
	require.NoError(t, err)
	assert.Equal(t, "Calm week.", got)

	got, err = parseDescription("Plain paragraph.")
	require.NoError(t, err)
	assert.Equal(t, "Plain paragraph.", got)

	_, err = parseDescription(`{"description":""}`)
	assert.Error(t, err)
	_, err = parseDescription("   ")
	assert.Error(t, err)
}

func TestPromptFormatting(t *testing.T) {
	report := sampleReport()

	detailed := formatDetailedData(report)
	assert.Contains(t, detailed, "Emotion: Joy\n- On 2024-01-01, the value was 0.70000.\n- On 2024-01-02, the value was 0.50000.\n")
	assert.Less(t, strings.Index(detailed, "Emotion: Fear"), strings.Index(detailed, "Emotion: Joy"))

	overall := formatOverallData(report)
	assert.Contains(t, overall, "Emotion: Fear\n- The average value was 0.30000.\n")

	assert.Contains(t, descriptionPrompt("overall report", overall), "Here is the overall report data about emotions")
	assert.Contains(t, suggestionsPrompt([]string{"joy", "fear"}), "following emotions: joy, fear.")
}

type fakeChatModel struct {
	content  string
	err      error
	messages []llms.MessageContent
}

func (f *fakeChatModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	if f.content == "" {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.content}}}, nil
}

func (f *fakeChatModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLLMClientGenerate(t *testing.T) {
	model := &fakeChatModel{content: `  {"description":"ok"}  `}
	client := newLLMClient(model, 0)

	out, err := client.Generate(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"description":"ok"}`, out)
	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.TextPart("system"), model.messages[0].Parts[0])
	assert.Equal(t, llms.TextPart("user"), model.messages[1].Parts[0])

	_, err = newLLMClient(&fakeChatModel{}, 0).Generate(context.Background(), "s", "u")
	assert.Error(t, err)

	_, err = newLLMClient(&fakeChatModel{err: errors.New("401")}, 0).Generate(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestLLMClientRespectsCancelledContext(t *testing.T) {
	client := newLLMClient(&fakeChatModel{content: "x"}, 0.001)
	// 第一次调用消耗令牌桶
	_, err := client.Generate(context.Background(), "s", "u")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Generate(ctx, "s", "u")
	assert.Error(t, err)
}
