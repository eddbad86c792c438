package models

import (
	"math"
	"time"
)

// EvaluationMissing replaces the evaluation when the reviewer output has no
// recognizable final answer section.
const EvaluationMissing = "(evaluation section not found)"

type AgentConfig struct {
	Name     string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Failure struct {
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// AgentResult is the outcome of exactly one backend call. Build it with
// Succeeded or Failed.
type AgentResult struct {
	Agent   string
	Text    string
	Failure *Failure
	Elapsed time.Duration
}

func Succeeded(agent, text string, elapsed time.Duration) AgentResult {
	return AgentResult{Agent: agent, Text: text, Elapsed: elapsed}
}

func Failed(agent string, kind FailureKind, reason string, elapsed time.Duration) AgentResult {
	return AgentResult{Agent: agent, Failure: &Failure{Kind: kind, Reason: reason}, Elapsed: elapsed}
}

func (r AgentResult) Success() bool {
	return r.Failure == nil
}

func (r AgentResult) Reason() string {
	if r.Failure == nil {
		return ""
	}
	return r.Failure.Reason
}

// Summary renders the result the way the generate endpoint reports it.
func (r AgentResult) Summary() WorkerResponse {
	text := r.Text
	if !r.Success() {
		text = "error: " + r.Failure.Reason
	}
	return WorkerResponse{
		AgentName:      r.Agent,
		Response:       text,
		IsSuccess:      r.Success(),
		ProcessingTime: Seconds(r.Elapsed),
	}
}

type ReviewOutcome struct {
	Evaluation  string
	FinalAnswer string
}

type RequestMetadata struct {
	Total      int
	Successful int
	Failed     int
	Elapsed    time.Duration
}

type Result struct {
	FinalAnswer string
	Evaluation  string
	Workers     []AgentResult
	Metadata    RequestMetadata
}

func (r *Result) Response() GenerateResponse {
	workers := make([]WorkerResponse, 0, len(r.Workers))
	for _, w := range r.Workers {
		workers = append(workers, w.Summary())
	}
	return GenerateResponse{
		FinalAnswer:     r.FinalAnswer,
		ReviewComment:   r.Evaluation,
		WorkerResponses: workers,
		Metadata: Metadata{
			TotalWorkers:          r.Metadata.Total,
			SuccessfulWorkers:     r.Metadata.Successful,
			FailedWorkers:         r.Metadata.Failed,
			ProcessingTimeSeconds: Seconds(r.Metadata.Elapsed),
		},
	}
}

// Seconds rounds d to two decimals.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
