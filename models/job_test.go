package models

import (
	"errors"
	"strings"
	"testing"
)

func TestNewPageJob(t *testing.T) {
	job := NewPageJob("/pages/chapter-12/page_001.png")

	if job.ID == "" {
		t.Error("expected a generated ID")
	}
	if job.FileName != "page_001.png" {
		t.Errorf("expected file name page_001.png, got %s", job.FileName)
	}
	if job.Status != StatusPending {
		t.Errorf("expected pending status, got %s", job.Status)
	}
	if job.Progress != 0 {
		t.Errorf("expected progress 0, got %d", job.Progress)
	}
}

func TestPageJobComplete(t *testing.T) {
	job := NewPageJob("page.png")
	job.Complete("/out/page_en")

	if job.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", job.Status)
	}
	if job.OutputDir != "/out/page_en" {
		t.Errorf("expected output dir recorded, got %s", job.OutputDir)
	}
	if job.Progress != 100 {
		t.Errorf("expected progress 100, got %d", job.Progress)
	}
	if job.CompletedAt == nil {
		t.Error("expected completion time set")
	}
}

func TestPageJobFail(t *testing.T) {
	job := NewPageJob("page.png")
	job.Fail(errors.New("no such file"))

	if job.Status != StatusFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
	if !strings.Contains(job.StatusText(), "no such file") {
		t.Errorf("expected status text to carry the error, got %q", job.StatusText())
	}
}

func TestPageJobStatusText(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   string
	}{
		{StatusPending, "Ready to translate"},
		{StatusSlicing, "Slicing page..."},
		{StatusTranslating, "Translating..."},
		{StatusAssembling, "Assembling output..."},
		{StatusCompleted, "Completed!"},
	}

	for _, tt := range tests {
		job := NewPageJob("page.png")
		job.Status = tt.status
		if got := job.StatusText(); got != tt.want {
			t.Errorf("StatusText(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
