package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	descriptionSystemPrompt = `You summarize emotion data for a personal mood diary.
Reply with a JSON object of the form {"description": "<one paragraph>"}.`

	suggestionsSystemPrompt = `You are an expert in mental health and well-being.
Reply with a JSON object of the form {"suggestions": [{"topic": "...", "explanation": "...", "steps": "..."}]}.`
)

// formatDetailedData 把每个标签的时间序列转换为提示词
func formatDetailedData(report *AggregateReport) string {
	title := cases.Title(language.English)
	var sb strings.Builder
	sb.WriteString("Here is the emotion data over a period of time:\n\n")
	for _, label := range report.Labels {
		sb.WriteString(fmt.Sprintf("Emotion: %s\n", title.String(label)))
		for _, point := range report.Detailed[label] {
			sb.WriteString(fmt.Sprintf("- On %s, the value was %.5f.\n", point.Date, point.Value))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatOverallData 把各标签均值转换为提示词
func formatOverallData(report *AggregateReport) string {
	title := cases.Title(language.English)
	var sb strings.Builder
	sb.WriteString("Here is the emotion data over a period of time:\n\n")
	for _, label := range report.Labels {
		sb.WriteString(fmt.Sprintf("Emotion: %s\n", title.String(label)))
		sb.WriteString(fmt.Sprintf("- The average value was %.5f.\n", report.Overall[label]))
		sb.WriteString("\n")
	}
	return sb.String()
}

func descriptionPrompt(dataType, data string) string {
	return fmt.Sprintf("Here is the %s data about emotions: %s. "+
		"Can you provide a summary or description of the emotional state in a paragraph? "+
		"Write using simple English and limit your paragraph to 800 words.", dataType, data)
}

func suggestionsPrompt(emotions []string) string {
	return fmt.Sprintf(`Act like an expert psychologist with 20 years of experience in emotional well-being and mental health.
You specialize in creating practical, evidence-based strategies for managing emotions and promoting mental health.

You are provided with the following emotions: %s. Create 10 highly actionable and detailed suggestions
that individuals can use to improve their emotional well-being and manage the listed emotions effectively.

1. Each suggestion should focus on real-world application, providing clear steps that individuals can follow.
2. Use simple language, but give enough depth to offer meaningful solutions.

Output format:
{"suggestions": [
  {"topic": "Practice Mindfulness Meditation",
   "explanation": "Mindfulness meditation allows you to become more aware of your emotions in a non-judgmental way.",
   "steps": "Start with 5 minutes a day, focusing on your breath."}
]}`, strings.Join(emotions, ", "))
}
