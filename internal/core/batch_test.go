package core_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/KhanhD1nh/compare-gcn/constants"
	"github.com/KhanhD1nh/compare-gcn/internal/core"
)

// jitterRecognizer completes out of order to exercise order restoration.
type jitterRecognizer struct{}

func (jitterRecognizer) Recognize(context.Context, []byte) (string, error) {
	time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
	return "AA 01555158", nil
}

// pathRenderer marks images rendered from a poisoned path so the paired
// recognizer can fail selectively.
type pathRenderer struct {
	failSubstring string
}

func (r pathRenderer) RenderPage(_ context.Context, path string) ([]byte, error) {
	if r.failSubstring != "" && strings.Contains(path, r.failSubstring) {
		return []byte("bad"), nil
	}
	return []byte("ok"), nil
}

type selectiveRecognizer struct{}

func (selectiveRecognizer) Recognize(_ context.Context, img []byte) (string, error) {
	time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	if string(img) == "bad" {
		return "", errors.New("LLM API timeout")
	}
	return "AA 01555158", nil
}

func TestNewTasksAssignsSequenceAndWorkerLabels(t *testing.T) {
	paths := []string{"/a-GCN.pdf", "/b-GCN.pdf", "/c-GCN.pdf", "/d-GCN.pdf", "/e-GCN.pdf"}
	tasks := core.NewTasks(paths, 2)
	if len(tasks) != 5 {
		t.Fatalf("len = %d", len(tasks))
	}
	for i, task := range tasks {
		if task.SequenceIndex != i+1 {
			t.Fatalf("task %d sequence = %d", i, task.SequenceIndex)
		}
		if want := i%2 + 1; task.WorkerLabel != want {
			t.Fatalf("task %d worker label = %d, want %d", i, task.WorkerLabel, want)
		}
	}
}

func TestRunBatchRestoresSubmissionOrder(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		proc := core.NewProcessor(nil, pathRenderer{}, jitterRecognizer{}, nil)
		orch := core.NewOrchestrator(proc, nil, core.WithWorkers(workers))

		var paths []string
		for i := 0; i < 20; i++ {
			paths = append(paths, "/data/AA 01555158-GCN.pdf")
		}
		results := orch.RunBatch(context.Background(), core.NewTasks(paths, workers))

		if len(results) != 20 {
			t.Fatalf("workers=%d: got %d results, want 20", workers, len(results))
		}
		for i, res := range results {
			if res.SequenceIndex != i+1 {
				t.Fatalf("workers=%d: position %d holds sequence %d", workers, i, res.SequenceIndex)
			}
		}
	}
}

func TestRunBatchSingleFailureDoesNotAbortSiblings(t *testing.T) {
	proc := core.NewProcessor(nil, pathRenderer{failSubstring: "poison"}, selectiveRecognizer{}, nil)
	orch := core.NewOrchestrator(proc, nil, core.WithWorkers(4))

	paths := []string{
		"/data/AA 01555158-GCN.pdf",
		"/data/poison/AA 01555158-GCN.pdf",
		"/data/D0042250-GCN.pdf",
	}
	results := orch.RunBatch(context.Background(), core.NewTasks(paths, 4))

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[1].Status != constants.StatusError {
		t.Fatalf("poisoned task status = %s, want error", results[1].Status)
	}
	if results[0].Status != constants.StatusSuccess || results[2].Status != constants.StatusSuccess {
		t.Fatalf("siblings affected: %s / %s", results[0].Status, results[2].Status)
	}
}

type panicRenderer struct{}

func (panicRenderer) RenderPage(_ context.Context, path string) ([]byte, error) {
	if strings.Contains(path, "boom") {
		panic("renderer exploded")
	}
	return []byte("ok"), nil
}

func TestRunBatchRecoversTaskPanic(t *testing.T) {
	proc := core.NewProcessor(nil, panicRenderer{}, jitterRecognizer{}, nil)
	orch := core.NewOrchestrator(proc, nil, core.WithWorkers(2))

	paths := []string{
		"/data/AA 01555158-GCN.pdf",
		"/data/boom/AA 01555158-GCN.pdf",
		"/data/AA 01555158-GCN.pdf",
	}
	results := orch.RunBatch(context.Background(), core.NewTasks(paths, 2))

	if len(results) != 3 {
		t.Fatalf("panicking task swallowed: %d results", len(results))
	}
	if results[1].Status != constants.StatusError {
		t.Fatalf("panic should fold into error result, got %s", results[1].Status)
	}
	if !strings.Contains(results[1].ErrorDetail, "unexpected fault") {
		t.Fatalf("panic detail missing: %q", results[1].ErrorDetail)
	}
}

func TestRunBatchEmpty(t *testing.T) {
	proc := core.NewProcessor(nil, pathRenderer{}, jitterRecognizer{}, nil)
	orch := core.NewOrchestrator(proc, nil)
	if results := orch.RunBatch(context.Background(), nil); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRunBatchResultHookSeesEveryResult(t *testing.T) {
	proc := core.NewProcessor(nil, pathRenderer{}, jitterRecognizer{}, nil)
	seen := 0
	orch := core.NewOrchestrator(proc, nil,
		core.WithWorkers(3),
		core.WithResultHook(func(core.Result) { seen++ }),
	)
	paths := make([]string, 7)
	for i := range paths {
		paths[i] = "/data/AA 01555158-GCN.pdf"
	}
	_ = orch.RunBatch(context.Background(), core.NewTasks(paths, 3))
	if seen != 7 {
		t.Fatalf("hook saw %d results, want 7", seen)
	}
}
