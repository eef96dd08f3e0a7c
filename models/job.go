package models

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending     JobStatus = "pending"
	StatusSlicing     JobStatus = "slicing"
	StatusTranslating JobStatus = "translating"
	StatusAssembling  JobStatus = "assembling"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// PageJob tracks the translation of one source strip from input file to
// finished output.
type PageJob struct {
	ID           string
	InputPath    string
	OutputDir    string
	FileName     string
	Status       JobStatus
	Progress     int // 0-100
	CurrentStage string
	Error        error
	CreatedAt    time.Time
	CompletedAt  *time.Time

	// Translation settings
	TargetLang string

	// Chunk accounting, filled in as the slicer and scheduler run
	TotalChunks int
	DoneChunks  int
}

func NewPageJob(inputPath string) *PageJob {
	return &PageJob{
		ID:        uuid.New().String(),
		InputPath: inputPath,
		FileName:  filepath.Base(inputPath),
		Status:    StatusPending,
		Progress:  0,
		CreatedAt: time.Now(),
	}
}

func (j *PageJob) SetStatus(status JobStatus, stage string, progress int) {
	j.Status = status
	j.CurrentStage = stage
	j.Progress = progress
}

func (j *PageJob) Complete(outputDir string) {
	j.Status = StatusCompleted
	j.OutputDir = outputDir
	j.Progress = 100
	now := time.Now()
	j.CompletedAt = &now
}

func (j *PageJob) Fail(err error) {
	j.Status = StatusFailed
	j.Error = err
	j.CurrentStage = "Failed"
}

func (j *PageJob) StatusText() string {
	switch j.Status {
	case StatusPending:
		return "Ready to translate"
	case StatusSlicing:
		return "Slicing page..."
	case StatusTranslating:
		return "Translating..."
	case StatusAssembling:
		return "Assembling output..."
	case StatusCompleted:
		return "Completed!"
	case StatusFailed:
		if j.Error != nil {
			return "Failed: " + j.Error.Error()
		}
		return "Failed"
	default:
		return string(j.Status)
	}
}
