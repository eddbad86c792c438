package main

import (
	"fmt"
	"strings"

	"go-ensemble/pkg/models"
	"go-ensemble/pkg/prompts"
	"go-ensemble/pkg/template"
)

const ruleWidth = 60

type answerView struct {
	Rule       string
	ShowReview bool
	Response   *models.GenerateResponse
}

func renderAnswer(resp *models.GenerateResponse, review bool) (string, error) {
	out, err := template.Parse(prompts.AnswerView, answerView{
		Rule:       strings.Repeat("=", ruleWidth),
		ShowReview: review,
		Response:   resp,
	})
	if err != nil {
		return "", fmt.Errorf("rendering answer: %w", err)
	}
	return out, nil
}
