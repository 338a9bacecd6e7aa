package pipeline

import (
	"testing"
	"time"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/sink"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("", "inbound", "po.edi", false)
	if job.ID == "" || job.RunID != job.ID {
		t.Errorf("expected run id to default to job id, got job=%q run=%q", job.ID, job.RunID)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}

	evt := NewJob("evt-42", "", "po.edi", true)
	if evt.RunID != "evt-42" || !evt.Force {
		t.Errorf("unexpected job %+v", evt.Snapshot())
	}
	if evt.ID == job.ID {
		t.Error("expected distinct job ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusChecking, "dedup"},
		{StatusFetching, "fetching"},
		{StatusParsing, "parsing"},
		{StatusStoring, "storing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusPartial, StatusDupSkipped} {
		if !s.Done() {
			t.Errorf("expected %q to be terminal", s)
		}
	}
	for _, s := range []JobStatus{StatusQueued, StatusChecking, StatusFetching, StatusParsing, StatusStoring} {
		if s.Done() {
			t.Errorf("expected %q to be in progress", s)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("fetch failed")
	job.AddError("store failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "fetch failed" {
		t.Errorf("expected first error %q, got %q", "fetch failed", snap.Progress.Errors[0])
	}
}

func TestJob_SetOutcome(t *testing.T) {
	job := &Job{ID: "outcome-test", UpdatedAt: time.Now()}
	out := Transform("BEG*00*NE*PO1~PO1*X*1~PO1*1*2*EA*3***I~", "f.edi", DefaultTransformOptions())
	job.SetOutcome(out)

	snap := job.Snapshot()
	if snap.Progress.Segments != 3 {
		t.Errorf("expected 3 segments, got %d", snap.Progress.Segments)
	}
	if snap.Progress.Skipped != 1 || len(snap.Diagnostics) != 1 {
		t.Errorf("expected 1 skipped segment, got %d (%d diagnostics)", snap.Progress.Skipped, len(snap.Diagnostics))
	}
	if snap.Progress.RowsProjected != 3 {
		t.Errorf("expected 3 projected rows, got %d", snap.Progress.RowsProjected)
	}
	if snap.Progress.Tables[projector.POLines] != 1 {
		t.Errorf("unexpected table counts %v", snap.Progress.Tables)
	}
}

func TestJob_SetStored(t *testing.T) {
	job := &Job{ID: "stored-test", UpdatedAt: time.Now()}
	job.SetStored(sink.WriteResult{
		Inserted:   map[projector.Table]int{projector.POLines: 4, projector.POHeaders: 1},
		Duplicates: 2,
	})

	snap := job.Snapshot()
	if snap.Progress.RowsStored != 5 {
		t.Errorf("expected 5 stored rows, got %d", snap.Progress.RowsStored)
	}
	if snap.Progress.Duplicates != 2 {
		t.Errorf("expected 2 duplicates, got %d", snap.Progress.Duplicates)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("ISA*00~")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
	job.releaseData()
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil slices.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil || snap.Diagnostics == nil {
		t.Error("expected non-nil slices in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
