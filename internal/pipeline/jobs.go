package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/parser"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/sink"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusChecking   JobStatus = "checking"
	StatusFetching   JobStatus = "fetching"
	StatusParsing    JobStatus = "parsing"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusPartial, StatusDupSkipped:
		return true
	}
	return false
}

// maxJobDiagnostics caps diagnostics kept per job; the count is still exact.
const maxJobDiagnostics = 100

// Job tracks the state of a single file ingestion.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	RunID string `json:"run_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Bucket   string    `json:"bucket,omitempty"`
	Filename string    `json:"filename"`
	Force    bool      `json:"force"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData    []byte
	diagnostics []parser.Diagnostic
	errors      []string
}

// Progress tracks processing progress.
type Progress struct {
	Segments      int                     `json:"segments"`
	Skipped       int                     `json:"segments_skipped"`
	Diagnostics   int                     `json:"diagnostics"`
	RowsProjected int                     `json:"rows_projected"`
	RowsStored    int                     `json:"rows_stored"`
	Duplicates    int                     `json:"rows_duplicate"`
	Tables        map[projector.Table]int `json:"tables,omitempty"`
	Errors        []string                `json:"errors"`
}

// NewJob returns a queued job. runID defaults to a fresh ULID.
func NewJob(runID, bucket, filename string, force bool) *Job {
	now := time.Now()
	id := NewID()
	if runID == "" {
		runID = id
	}
	return &Job{
		ID:        id,
		RunID:     runID,
		Status:    StatusQueued,
		Phase:     "queued",
		Bucket:    bucket,
		Filename:  filename,
		Force:     force,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// CurrentStatus returns the status under the job lock.
func (j *Job) CurrentStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetOutcome records what the transform produced.
func (j *Job) SetOutcome(out *Outcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Segments = out.Segments
	j.Progress.Skipped = out.Result.Skipped()
	j.Progress.Diagnostics = len(out.Result.Diagnostics)
	j.Progress.RowsProjected = out.Tables.Total()
	j.Progress.Tables = out.Tables.Counts()
	diags := out.Result.Diagnostics
	if len(diags) > maxJobDiagnostics {
		diags = diags[:maxJobDiagnostics]
	}
	j.diagnostics = append([]parser.Diagnostic(nil), diags...)
	j.UpdatedAt = time.Now()
}

// SetStored records the sink result.
func (j *Job) SetStored(res sink.WriteResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.RowsStored = res.Total()
	j.Progress.Duplicates = res.Duplicates
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseData drops the file bytes once they are no longer needed.
func (j *Job) releaseData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string              `json:"job_id"`
	RunID       string              `json:"run_id"`
	Status      JobStatus           `json:"status"`
	Phase       string              `json:"phase"`
	Bucket      string              `json:"bucket,omitempty"`
	Filename    string              `json:"filename"`
	Force       bool                `json:"force"`
	ContentHash string              `json:"content_hash,omitempty"`
	Progress    Progress            `json:"progress"`
	Diagnostics []parser.Diagnostic `json:"diagnostics"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	diags := append([]parser.Diagnostic{}, j.diagnostics...)
	var tables map[projector.Table]int
	if j.Progress.Tables != nil {
		tables = make(map[projector.Table]int, len(j.Progress.Tables))
		for k, v := range j.Progress.Tables {
			tables[k] = v
		}
	}
	p := j.Progress
	p.Errors = errs
	p.Tables = tables
	return JobSnapshot{
		ID:          j.ID,
		RunID:       j.RunID,
		Status:      j.Status,
		Phase:       j.Phase,
		Bucket:      j.Bucket,
		Filename:    j.Filename,
		Force:       j.Force,
		ContentHash: j.ContentHash,
		Progress:    p,
		Diagnostics: diags,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
