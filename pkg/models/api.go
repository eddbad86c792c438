package models

type GenerateRequest struct {
	Prompt   *string   `json:"prompt,omitempty"`
	Messages []Message `json:"messages,omitempty"`
}

type GenerateResponse struct {
	FinalAnswer     string           `json:"final_answer"`
	ReviewComment   string           `json:"review_comment"`
	WorkerResponses []WorkerResponse `json:"worker_responses"`
	Metadata        Metadata         `json:"metadata"`
}

type WorkerResponse struct {
	AgentName      string  `json:"agent_name"`
	Response       string  `json:"response"`
	IsSuccess      bool    `json:"is_success"`
	ProcessingTime float64 `json:"processing_time"`
}

type Metadata struct {
	TotalWorkers          int     `json:"total_workers"`
	SuccessfulWorkers     int     `json:"successful_workers"`
	FailedWorkers         int     `json:"failed_workers"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

type AgentInfo struct {
	Name   string `json:"name"`
	Model  string `json:"model"`
	APIURL string `json:"api_url"`
}

type AgentsResponse struct {
	Reviewer AgentInfo   `json:"reviewer"`
	Workers  []AgentInfo `json:"workers"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	InFlight  int    `json:"in_flight"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
