package prompts

// Heading tokens the reviewer is told to use. The review parser recognizes
// them case-insensitively.
const (
	EvaluationHeading  = "## Evaluation"
	FinalAnswerHeading = "## Final Answer"
)

var (
	// ReviewTemplate expects Question, History ([]{Label, Content}) and
	// Workers ([]{Name, Success, Text, Error}).
	ReviewTemplate = `You are the chief reviewer AI. Several AI workers have answered the user's question below.
{{- if .History}}

# Conversation history so far:
{{- range .History}}
[{{.Label}}]
{{.Content}}
{{- end}}
{{- end}}

# User question:
{{.Question}}

# Worker answers:
{{- range .Workers}}
---
[Agent: {{.Name}}]
{{- if .Success}}
{{.Text}}
{{- else}}
WARNING: this worker returned an error: {{.Error}}
Exclude this answer from evaluation and synthesis.
{{- end}}
{{- end}}
---

# Your task:
1. Evaluation: briefly assess each worker's answer.
2. Synthesis: using all of the answers above, correct their mistakes and combine their strengths into a single, complete, highest-quality final answer.

# Output format (strict):
` + EvaluationHeading + `
(your evaluation of each worker's answer)

` + FinalAnswerHeading + `
(the synthesized final answer)`

	// AnswerView renders a generate response in the chat client.
	AnswerView = `
{{.Rule}}
Final answer
{{.Rule}}
{{.Response.FinalAnswer}}
{{- if .ShowReview}}

{{.Rule}}
Reviewer evaluation
{{.Rule}}
{{.Response.ReviewComment}}
{{- end}}

{{.Rule}}
Workers: {{.Response.Metadata.SuccessfulWorkers}}/{{.Response.Metadata.TotalWorkers}} succeeded in {{printf "%.2f" .Response.Metadata.ProcessingTimeSeconds}}s
{{- range .Response.WorkerResponses}}
  - {{.AgentName}} ({{printf "%.2f" .ProcessingTime}}s){{if not .IsSuccess}}: {{.Response}}{{end}}
{{- end}}
`
)
