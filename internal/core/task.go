// Package core contains the per-file processing state machine and the batch
// orchestrator that fans it out over a bounded worker pool.
package core

import (
	"time"

	"github.com/KhanhD1nh/compare-gcn/constants"
)

// FileTask is one file submitted to a batch. Immutable after creation.
type FileTask struct {
	// Path locates the PDF on disk.
	Path string
	// SequenceIndex is the 1-based position in the submitted batch; it
	// defines output ordering regardless of completion order.
	SequenceIndex int
	// WorkerLabel is assigned round-robin at submission time and appears in
	// log lines only. The pool schedules tasks by worker availability, not
	// by this label.
	WorkerLabel int
}

// NewTasks builds the task list for a batch of file paths, assigning
// sequence indices 1..N and round-robin worker labels.
func NewTasks(paths []string, workers int) []FileTask {
	if workers < 1 {
		workers = 1
	}
	tasks := make([]FileTask, 0, len(paths))
	for i, p := range paths {
		tasks = append(tasks, FileTask{
			Path:          p,
			SequenceIndex: i + 1,
			WorkerLabel:   i%workers + 1,
		})
	}
	return tasks
}

// Result is the outcome of processing one FileTask. Exactly one Result is
// produced per task, success or failure; it is immutable once produced.
type Result struct {
	SequenceIndex  int               `json:"index"`
	FileName       string            `json:"file_name"`
	FilePath       string            `json:"file_path"`
	FilenameID     string            `json:"filename_gcn"`
	RecognizedID   string            `json:"predicted_gcn"`
	Verdict        constants.Verdict `json:"comparison"`
	Status         constants.Status  `json:"status"`
	ErrorDetail    string            `json:"error,omitempty"`
	ElapsedSeconds float64           `json:"time"`
	FromCache      bool              `json:"from_cache"`
	ProcessedAt    time.Time         `json:"processed_at,omitempty"`
}
