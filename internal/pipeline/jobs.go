package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/jthorne/pdfoutline/internal/outline"
)

// JobStatus represents the state of an outline extraction job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusClassifying JobStatus = "classifying"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single document extraction.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`

	// Path records which strategy produced the outline: "known",
	// "heuristic", or "native" for markup formats.
	Path        string `json:"path,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	record   *outline.DocumentRecord
	errors   []string
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetResult stores the finished record and its provenance.
func (j *Job) SetResult(rec outline.DocumentRecord, path, fingerprint string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.record = &rec
	j.Path = path
	j.Fingerprint = fingerprint
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

// JobSnapshot is a read-only, JSON-safe copy of job state. Record is
// set only once the job has completed.
type JobSnapshot struct {
	ID          string                  `json:"job_id"`
	Filename    string                  `json:"filename"`
	Status      JobStatus               `json:"status"`
	Phase       string                  `json:"phase"`
	Path        string                  `json:"path,omitempty"`
	Fingerprint string                  `json:"fingerprint,omitempty"`
	Errors      []string                `json:"errors"`
	Record      *outline.DocumentRecord `json:"record,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	snap := JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		Status:      j.Status,
		Phase:       j.Phase,
		Path:        j.Path,
		Fingerprint: j.Fingerprint,
		Errors:      errs,
	}
	if j.Status == StatusCompleted && j.record != nil {
		rec := *j.record
		snap.Record = &rec
	}
	return snap
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns a hex string.
// Used for job identifiers.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// NewJobID derives a job identifier from the filename and submission time.
func NewJobID(filename string) string {
	return ContentHashHex([]byte(fmt.Sprintf("%s-%d", filename, time.Now().UnixNano())))[:20]
}
