package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Sample 一条带标签的训练语料
type Sample struct {
	Label string
	Text  string
}

// TrainOptions 训练参数
type TrainOptions struct {
	Epochs       int
	LearningRate float64
	L2           float64
	MinCount     int // 词频低于该值的词不进入词表
	MaxTokens    int
	// Progress 每轮结束后回调，可为 nil
	Progress func(epoch int, loss float64)
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Epochs:       300,
		LearningRate: 0.5,
		L2:           1e-4,
		MinCount:     1,
		MaxTokens:    DefaultMaxTokens,
	}
}

type example struct {
	label int
	feats []feature
}

// Train 全批量梯度下降训练多项逻辑回归。相同输入总是得到相同模型。
func Train(samples []Sample, opts TrainOptions) (*Model, error) {
	if len(samples) == 0 {
		return nil, errors.New("no training samples")
	}
	if opts.Epochs <= 0 || opts.LearningRate <= 0 {
		return nil, fmt.Errorf("invalid options: epochs=%d learning_rate=%v", opts.Epochs, opts.LearningRate)
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}

	labels, labelIndex := collectLabels(samples)
	if len(labels) < 2 {
		return nil, fmt.Errorf("need at least two distinct labels, got %d", len(labels))
	}

	tokenized := make([][]string, len(samples))
	freq := make(map[string]int)
	for i, s := range samples {
		tokenized[i] = Tokenize(s.Text, opts.MaxTokens)
		for _, tok := range tokenized[i] {
			freq[tok]++
		}
	}
	vocab := buildVocabulary(freq, opts.MinCount)
	if len(vocab) == 0 {
		return nil, errors.New("empty vocabulary")
	}

	examples := make([]example, len(samples))
	for i, s := range samples {
		examples[i] = example{label: labelIndex[s.Label], feats: countFeatures(tokenized[i], vocab)}
	}

	k, v := len(labels), len(vocab)
	weights := newMatrix(k, v)
	bias := make([]float64, k)
	gradW := newMatrix(k, v)
	gradB := make([]float64, k)
	probs := make([]float64, k)
	n := float64(len(examples))

	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		for c := range gradW {
			clear(gradW[c])
		}
		clear(gradB)
		var loss float64

		for _, ex := range examples {
			for c := range probs {
				probs[c] = bias[c] + dot(weights[c], ex.feats)
			}
			softmax(probs)
			loss -= math.Log(math.Max(probs[ex.label], 1e-12))

			for c := range probs {
				g := probs[c]
				if c == ex.label {
					g -= 1
				}
				gradB[c] += g
				for _, f := range ex.feats {
					gradW[c][f.index] += g * f.count
				}
			}
		}

		for c := 0; c < k; c++ {
			for j := 0; j < v; j++ {
				weights[c][j] -= opts.LearningRate * (gradW[c][j]/n + opts.L2*weights[c][j])
			}
			bias[c] -= opts.LearningRate * gradB[c] / n
		}

		if opts.Progress != nil {
			opts.Progress(epoch, loss/n)
		}
	}

	return newModel(artifact{
		Version:    artifactVersion,
		Labels:     labels,
		Vocabulary: vocab,
		Weights:    weights,
		Bias:       bias,
		MaxTokens:  opts.MaxTokens,
	})
}

// collectLabels 标签按字典序排列，作为规范顺序
func collectLabels(samples []Sample) ([]string, map[string]int) {
	set := make(map[string]struct{})
	for _, s := range samples {
		set[s.Label] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return labels, index
}

func buildVocabulary(freq map[string]int, minCount int) map[string]int {
	words := make([]string, 0, len(freq))
	for w, c := range freq {
		if c >= minCount {
			words = append(words, w)
		}
	}
	sort.Strings(words)

	vocab := make(map[string]int, len(words))
	for i, w := range words {
		vocab[w] = i
	}
	return vocab
}

func newMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
