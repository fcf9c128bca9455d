// Package worker consumes queued analysis jobs from RabbitMQ, runs them
// through the engine and reports status updates.
package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Queue and exchange names.
const (
	QueueName       = "analyses"
	UpdatesExchange = "analysis_updates"
)

// Job is the queue message for one analysis. The record must already exist
// in the pending state and the resume must be stored under ObjectKey.
type Job struct {
	AnalysisID     uuid.UUID `json:"analysis_id"`
	ObjectKey      string    `json:"object_key"`
	Mime           string    `json:"mime"`
	FileName       string    `json:"file_name"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
}

// DecodeJob parses and checks a queue message body.
func DecodeJob(body []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return Job{}, fmt.Errorf("invalid job message: %w", err)
	}
	if job.AnalysisID == uuid.Nil {
		return Job{}, fmt.Errorf("invalid job message: analysis_id is required")
	}
	if job.ObjectKey == "" {
		return Job{}, fmt.Errorf("invalid job message: object_key is required")
	}
	return job, nil
}

// Status values published on the updates exchange.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// StatusUpdate is published to UpdatesExchange with routing key analysis.<id>.
type StatusUpdate struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	ATSScore   *int      `json:"ats_score,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RoutingKey returns the topic routing key for the update.
func (u StatusUpdate) RoutingKey() string {
	return "analysis." + u.AnalysisID.String()
}
