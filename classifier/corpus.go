package classifier

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

//go:embed seed/emotion_seed.csv
var seedCorpus []byte

// SeedSamples 返回内置的小型语料，供本地开发和测试训练使用
func SeedSamples() ([]Sample, error) {
	return ReadCorpus(bytes.NewReader(seedCorpus))
}

// ReadCorpus 读取带表头的 CSV 语料，需要包含 Emotion 与 Text 两列（大小写不敏感）
func ReadCorpus(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}
	labelCol, textCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "emotion":
			labelCol = i
		case "text":
			textCol = i
		}
	}
	if labelCol < 0 || textCol < 0 {
		return nil, errors.New("corpus header must contain Emotion and Text columns")
	}

	var samples []Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus line %d: %w", line, err)
		}
		if labelCol >= len(rec) || textCol >= len(rec) {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(rec[labelCol]))
		text := strings.TrimSpace(rec[textCol])
		if label == "" || text == "" {
			continue
		}
		samples = append(samples, Sample{Label: label, Text: text})
	}
	if len(samples) == 0 {
		return nil, errors.New("corpus has no samples")
	}
	return samples, nil
}
