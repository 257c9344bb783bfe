// Package main 离线训练情绪分类模型并写出模型文件
package main

import (
	"MoodMapGo/classifier"
	"MoodMapGo/config"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	corpusPath string
	outPath    string
	logDir     string
	opts       = classifier.DefaultTrainOptions()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the diary emotion classifier",
	Long: `train fits a bag-of-words logistic-regression emotion classifier and writes
the model file loaded by the API server (MODEL_PATH).

Examples:
  # Train on the embedded seed corpus
  train --out artifacts/emotion_classifier.json

  # Train on a CSV corpus with Emotion and Text columns
  train --corpus data/emotion_dataset.csv --epochs 500`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	RunE:          runTrain,
}

func init() {
	rootCmd.Flags().StringVar(&corpusPath, "corpus", "", "CSV corpus with Emotion and Text columns (default: embedded seed corpus)")
	rootCmd.Flags().StringVar(&outPath, "out", "artifacts/emotion_classifier.json", "output model path")
	rootCmd.Flags().StringVar(&logDir, "log-dir", "", "also write JSON logs to this directory")
	rootCmd.Flags().IntVar(&opts.Epochs, "epochs", opts.Epochs, "gradient descent epochs")
	rootCmd.Flags().Float64Var(&opts.LearningRate, "lr", opts.LearningRate, "learning rate")
	rootCmd.Flags().Float64Var(&opts.L2, "l2", opts.L2, "L2 regularization strength")
	rootCmd.Flags().IntVar(&opts.MinCount, "min-count", opts.MinCount, "drop words seen fewer times than this")
	rootCmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", opts.MaxTokens, "token cap per input")
}

func runTrain(cmd *cobra.Command, args []string) error {
	if err := config.InitLogger(logDir, true); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer config.Logger.Sync()

	samples, err := loadSamples()
	if err != nil {
		return err
	}
	config.Logger.Infow("语料已加载", "samples", len(samples), "corpus", corpusSource())

	opts.Progress = func(epoch int, loss float64) {
		if epoch == 1 || epoch%50 == 0 || epoch == opts.Epochs {
			config.Logger.Infow("训练进度", "epoch", epoch, "loss", loss)
		}
	}

	model, err := classifier.Train(samples, opts)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	correct := 0
	for _, s := range samples {
		if label, _ := model.Classify(s.Text).Dominant(); label == s.Label {
			correct++
		}
	}
	config.Logger.Infow("训练完成",
		"labels", model.Labels(),
		"trainAccuracy", float64(correct)/float64(len(samples)),
	)

	if err := model.Save(outPath); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	config.Logger.Infow("模型已保存", "path", outPath)
	return nil
}

func loadSamples() ([]classifier.Sample, error) {
	if corpusPath == "" {
		return classifier.SeedSamples()
	}
	f, err := os.Open(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return classifier.ReadCorpus(f)
}

func corpusSource() string {
	if corpusPath == "" {
		return "embedded seed"
	}
	return corpusPath
}
