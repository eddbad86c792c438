package reviewer

import (
	"github.com/rs/zerolog/log"
	"go-ensemble/pkg/data"
	"go-ensemble/pkg/models"
	"strings"
)

type section int

const (
	none section = iota
	evaluation
	finalAnswer
)

var (
	finalAnswerKeywords = []string{"final answer", "最終回答"}
	evaluationKeywords  = []string{"evaluation", "評価"}
)

// Parse splits reviewer output into its evaluation and final answer
// sections. When no final answer section is found the whole text becomes the
// final answer and the evaluation is models.EvaluationMissing.
func Parse(raw string) models.ReviewOutcome {
	var eval, final []string
	current := none

	for _, line := range data.SplitLines(raw) {
		if next, ok := heading(line); ok {
			current = next
			continue
		}
		switch current {
		case evaluation:
			eval = append(eval, line)
		case finalAnswer:
			final = append(final, line)
		}
	}

	outcome := models.ReviewOutcome{
		Evaluation:  strings.TrimSpace(strings.Join(eval, "\n")),
		FinalAnswer: strings.TrimSpace(strings.Join(final, "\n")),
	}
	if outcome.FinalAnswer == "" {
		log.Warn().Msg("final answer section not found, using the whole reviewer output")
		return models.ReviewOutcome{Evaluation: models.EvaluationMissing, FinalAnswer: raw}
	}
	return outcome
}

// heading reports which section a markdown heading line opens.
func heading(line string) (section, bool) {
	if !strings.HasPrefix(strings.TrimLeft(line, " \t"), "#") {
		return none, false
	}
	text := data.NormalizeHeading(line)
	for _, k := range finalAnswerKeywords {
		if strings.Contains(text, k) {
			return finalAnswer, true
		}
	}
	for _, k := range evaluationKeywords {
		if strings.Contains(text, k) {
			return evaluation, true
		}
	}
	return none, false
}
