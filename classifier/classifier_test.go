package classifier

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainSeed(t *testing.T) *Model {
	t.Helper()
	samples, err := SeedSamples()
	require.NoError(t, err)
	m, err := Train(samples, DefaultTrainOptions())
	require.NoError(t, err)
	return m
}

func assertValidDistribution(t *testing.T, d Distribution, labels []string) {
	t.Helper()
	require.Equal(t, labels, d.Labels())
	var sum float64
	for i := 0; i < d.Len(); i++ {
		_, p := d.At(i)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestTokenize(t *testing.T) {
	t.Run("drops stop words and short tokens", func(t *testing.T) {
		got := Tokenize("I am feeling VERY happy today!", 0)
		assert.Equal(t, []string{"feeling", "happy", "today"}, got)
	})

	t.Run("caps token count", func(t *testing.T) {
		got := Tokenize(strings.Repeat("happy ", 100), 10)
		assert.Len(t, got, 10)
	})

	t.Run("truncates very long input", func(t *testing.T) {
		text := strings.Repeat("ab ", MaxInputRunes)
		got := Tokenize(text, 0)
		assert.LessOrEqual(t, len(got), MaxInputRunes/3+1)
	})
}

func TestTrainAndClassify(t *testing.T) {
	m := trainSeed(t)
	labels := m.Labels()

	t.Run("labels are sorted and closed", func(t *testing.T) {
		assert.Equal(t, []string{"anger", "disgust", "fear", "joy", "neutral", "sadness", "shame", "surprise"}, labels)
	})

	t.Run("predicts obvious emotions", func(t *testing.T) {
		label, p := m.Classify("I am feeling very happy today!").Dominant()
		assert.Equal(t, "joy", label)
		assert.Greater(t, p, 0.3)

		label, _ = m.Classify("I felt very anxious today.").Dominant()
		assert.Equal(t, "fear", label)
	})

	t.Run("distribution is valid for any input", func(t *testing.T) {
		inputs := []string{
			"I am so angry and furious",
			"zzz qqq unknown words only",
			"!!!",
			strings.Repeat("I am feeling great today! ", 1000),
		}
		for _, in := range inputs {
			assertValidDistribution(t, m.Classify(in), labels)
		}
	})

	t.Run("classification is deterministic", func(t *testing.T) {
		a := m.Classify("Today was a productive day, I felt great!").Map()
		b := m.Classify("Today was a productive day, I felt great!").Map()
		assert.Equal(t, a, b)
	})

	t.Run("pathologically long input stays fast", func(t *testing.T) {
		text := strings.Repeat("I am feeling great today but a bit nervous ", 5000)
		start := time.Now()
		assertValidDistribution(t, m.Classify(text), labels)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		want := m.Classify("I hate being lied to").Map()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.Equal(t, want, m.Classify("I hate being lied to").Map())
			}()
		}
		wg.Wait()
	})
}

func TestTrainIsDeterministic(t *testing.T) {
	a := trainSeed(t)
	b := trainSeed(t)

	var bufA, bufB bytes.Buffer
	require.NoError(t, a.Encode(&bufA))
	require.NoError(t, b.Encode(&bufB))
	assert.Equal(t, bufA.String(), bufB.String())
}

func TestTrainRejectsBadInput(t *testing.T) {
	_, err := Train(nil, DefaultTrainOptions())
	assert.Error(t, err)

	_, err = Train([]Sample{{Label: "joy", Text: "happy"}, {Label: "joy", Text: "glad"}}, DefaultTrainOptions())
	assert.ErrorContains(t, err, "two distinct labels")

	opts := DefaultTrainOptions()
	opts.Epochs = 0
	_, err = Train([]Sample{{Label: "joy", Text: "happy"}, {Label: "fear", Text: "scared"}}, opts)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	m := trainSeed(t)
	path := filepath.Join(t.TempDir(), "models", "emotion.json")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Labels(), loaded.Labels())

	text := "The rude waiter made me angry"
	want := m.Classify(text).Map()
	got := loaded.Classify(text).Map()
	for label, p := range want {
		assert.InDelta(t, p, got[label], 1e-12, label)
	}
}

func TestDecodeRejectsCorruptArtifacts(t *testing.T) {
	cases := map[string]string{
		"bad version":      `{"version":2,"labels":["a","b"],"vocabulary":{},"weights":[[],[]],"bias":[0,0]}`,
		"one label":        `{"version":1,"labels":["a"],"vocabulary":{},"weights":[[]],"bias":[0]}`,
		"duplicate labels": `{"version":1,"labels":["a","a"],"vocabulary":{},"weights":[[],[]],"bias":[0,0]}`,
		"row mismatch":     `{"version":1,"labels":["a","b"],"vocabulary":{"x":0},"weights":[[1],[]],"bias":[0,0]}`,
		"index range":      `{"version":1,"labels":["a","b"],"vocabulary":{"x":3},"weights":[[1],[1]],"bias":[0,0]}`,
		"not json":         `nope`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestDistribution(t *testing.T) {
	t.Run("normalizes", func(t *testing.T) {
		d, err := NewDistribution([]string{"a", "b"}, []float64{1, 3})
		require.NoError(t, err)
		p, ok := d.Probability("b")
		require.True(t, ok)
		assert.InDelta(t, 0.75, p, 1e-12)
		_, ok = d.Probability("c")
		assert.False(t, ok)
	})

	t.Run("ties break by label order", func(t *testing.T) {
		d, err := NewDistribution([]string{"sadness", "joy", "fear"}, []float64{0.4, 0.4, 0.2})
		require.NoError(t, err)
		label, p := d.Dominant()
		assert.Equal(t, "sadness", label)
		assert.InDelta(t, 0.4, p, 1e-12)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewDistribution(nil, nil)
		assert.Error(t, err)
		_, err = NewDistribution([]string{"a"}, []float64{-1})
		assert.Error(t, err)
		_, err = NewDistribution([]string{"a", "a"}, []float64{1, 1})
		assert.Error(t, err)
		_, err = NewDistribution([]string{"a"}, []float64{math.NaN()})
		assert.Error(t, err)
		_, err = NewDistribution([]string{"a", "b"}, []float64{0, 0})
		assert.Error(t, err)
	})
}

func TestReadCorpus(t *testing.T) {
	in := "Text,Emotion\n\"Hello, world\",Joy\n,fear\nsome text,\nI am scared,Fear\n"
	samples, err := ReadCorpus(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Sample{
		{Label: "joy", Text: "Hello, world"},
		{Label: "fear", Text: "I am scared"},
	}, samples)

	_, err = ReadCorpus(strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}
