package classifier

import (
	"errors"
	"fmt"
	"math"
)

// Distribution 是一次分类结果：按模型标签顺序排列的概率，创建后不可修改
type Distribution struct {
	labels []string
	probs  []float64
}

// NewDistribution 校验并归一化概率。labels 的顺序即平局时的优先顺序。
func NewDistribution(labels []string, probs []float64) (Distribution, error) {
	if len(labels) == 0 {
		return Distribution{}, errors.New("distribution needs at least one label")
	}
	if len(labels) != len(probs) {
		return Distribution{}, fmt.Errorf("got %d labels and %d probabilities", len(labels), len(probs))
	}

	seen := make(map[string]struct{}, len(labels))
	var sum float64
	for i, p := range probs {
		if _, dup := seen[labels[i]]; dup {
			return Distribution{}, fmt.Errorf("duplicate label %q", labels[i])
		}
		seen[labels[i]] = struct{}{}
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return Distribution{}, fmt.Errorf("invalid probability %v for %q", p, labels[i])
		}
		sum += p
	}
	if sum <= 0 {
		return Distribution{}, errors.New("probabilities sum to zero")
	}

	d := Distribution{
		labels: append([]string(nil), labels...),
		probs:  make([]float64, len(probs)),
	}
	for i, p := range probs {
		d.probs[i] = p / sum
	}
	return d, nil
}

// Labels 返回标签的规范顺序
func (d Distribution) Labels() []string {
	return append([]string(nil), d.labels...)
}

func (d Distribution) Len() int { return len(d.labels) }

// At 返回第 i 个标签及其概率
func (d Distribution) At(i int) (string, float64) {
	return d.labels[i], d.probs[i]
}

// Probability 返回标签概率，未知标签返回 false
func (d Distribution) Probability(label string) (float64, bool) {
	for i, l := range d.labels {
		if l == label {
			return d.probs[i], true
		}
	}
	return 0, false
}

// Dominant 返回概率最大的标签，平局时取规范顺序中靠前的
func (d Distribution) Dominant() (string, float64) {
	best := 0
	for i := 1; i < len(d.probs); i++ {
		if d.probs[i] > d.probs[best] {
			best = i
		}
	}
	return d.labels[best], d.probs[best]
}

func (d Distribution) Map() map[string]float64 {
	m := make(map[string]float64, len(d.labels))
	for i, l := range d.labels {
		m[l] = d.probs[i]
	}
	return m
}
