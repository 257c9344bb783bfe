// Package classifier 实现离线训练、在线推理的词袋情绪分类模型。
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
)

const artifactVersion = 1

// DefaultMaxTokens 单次分类最多参与计算的词数
const DefaultMaxTokens = 5000

// Model 多项逻辑回归模型。加载后只读，可被多个请求并发使用。
type Model struct {
	labels    []string
	vocab     map[string]int
	weights   [][]float64 // [label][feature]
	bias      []float64
	maxTokens int
}

type artifact struct {
	Version    int            `json:"version"`
	Labels     []string       `json:"labels"`
	Vocabulary map[string]int `json:"vocabulary"`
	Weights    [][]float64    `json:"weights"`
	Bias       []float64      `json:"bias"`
	MaxTokens  int            `json:"max_tokens"`
}

// Load 从模型文件加载
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

func Decode(r io.Reader) (*Model, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return newModel(a)
}

func newModel(a artifact) (*Model, error) {
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", a.Version)
	}
	if len(a.Labels) < 2 {
		return nil, errors.New("model needs at least two labels")
	}
	seen := make(map[string]struct{}, len(a.Labels))
	for _, l := range a.Labels {
		if l == "" {
			return nil, errors.New("empty label")
		}
		if _, dup := seen[l]; dup {
			return nil, fmt.Errorf("duplicate label %q", l)
		}
		seen[l] = struct{}{}
	}
	if len(a.Weights) != len(a.Labels) || len(a.Bias) != len(a.Labels) {
		return nil, fmt.Errorf("weights/bias rows do not match %d labels", len(a.Labels))
	}

	n := len(a.Vocabulary)
	for word, idx := range a.Vocabulary {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("vocabulary index %d for %q out of range", idx, word)
		}
	}
	for k, row := range a.Weights {
		if len(row) != n {
			return nil, fmt.Errorf("weights row %d has %d columns, want %d", k, len(row), n)
		}
		for _, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("non-finite weight in row %d", k)
			}
		}
		if math.IsNaN(a.Bias[k]) || math.IsInf(a.Bias[k], 0) {
			return nil, fmt.Errorf("non-finite bias for %q", a.Labels[k])
		}
	}

	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Model{
		labels:    a.Labels,
		vocab:     a.Vocabulary,
		weights:   a.Weights,
		bias:      a.Bias,
		maxTokens: maxTokens,
	}, nil
}

// Labels 返回规范标签顺序
func (m *Model) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Classify 计算文本在全部标签上的概率分布
func (m *Model) Classify(text string) Distribution {
	feats := m.vectorize(text)

	scores := make([]float64, len(m.labels))
	for k := range m.labels {
		scores[k] = m.bias[k] + dot(m.weights[k], feats)
	}
	softmax(scores)

	return Distribution{labels: m.labels, probs: scores}
}

type feature struct {
	index int
	count float64
}

// vectorize 统计词频，按特征下标排序以保证求和顺序固定
func (m *Model) vectorize(text string) []feature {
	return countFeatures(Tokenize(text, m.maxTokens), m.vocab)
}

func countFeatures(tokens []string, vocab map[string]int) []feature {
	counts := make(map[int]float64)
	for _, tok := range tokens {
		if idx, ok := vocab[tok]; ok {
			counts[idx]++
		}
	}
	feats := make([]feature, 0, len(counts))
	for idx, c := range counts {
		feats = append(feats, feature{index: idx, count: c})
	}
	sort.Slice(feats, func(i, j int) bool { return feats[i].index < feats[j].index })
	return feats
}

func dot(row []float64, feats []feature) float64 {
	var s float64
	for _, f := range feats {
		s += row[f.index] * f.count
	}
	return s
}

// softmax 原地计算，先减去最大值避免溢出
func softmax(scores []float64) {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	for i, s := range scores {
		e := math.Exp(s - maxScore)
		scores[i] = e
		sum += e
	}
	for i := range scores {
		scores[i] /= sum
	}
}

// Save 写出模型文件
func (m *Model) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m *Model) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(artifact{
		Version:    artifactVersion,
		Labels:     m.labels,
		Vocabulary: m.vocab,
		Weights:    m.weights,
		Bias:       m.bias,
		MaxTokens:  m.maxTokens,
	})
}
