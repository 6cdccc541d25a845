package api

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"study-buddy/internal/models"
	"study-buddy/internal/services"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusComplete   = "complete"
	JobStatusFailed     = "failed"
)

// jobRetention is how long finished jobs stay pollable.
const jobRetention = time.Hour

// GenerationJob tracks an asynchronous generation request that the frontend polls.
type GenerationJob struct {
	ID        string           `json:"jobId"`
	Status    string           `json:"status"`
	Mode      models.Mode      `json:"mode"`
	Count     int              `json:"count"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Result    *models.Artifact `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	ErrorKind string           `json:"errorKind,omitempty"`
}

type JobManager struct {
	mu   sync.RWMutex
	jobs map[string]*GenerationJob
	now  func() time.Time
}

func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*GenerationJob),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateJob registers a pending job and drops finished jobs past retention.
func (m *JobManager) CreateJob(mode models.Mode, count int) (string, *GenerationJob) {
	now := m.now()
	job := &GenerationJob{
		ID:        uuid.NewString(),
		Status:    JobStatusPending,
		Mode:      mode,
		Count:     count,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.pruneLocked(now)
	m.jobs[job.ID] = job
	m.mu.Unlock()

	return job.ID, job.clone()
}

func (m *JobManager) GetJob(id string) (*GenerationJob, bool) {
	m.mu.RLock()
	job, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return job.clone(), true
}

func (m *JobManager) MarkProcessing(id string) {
	m.withJob(id, func(job *GenerationJob) {
		job.Status = JobStatusProcessing
	})
}

func (m *JobManager) MarkCompleted(id string, artifact *models.Artifact) {
	m.withJob(id, func(job *GenerationJob) {
		job.Status = JobStatusComplete
		job.Result = cloneArtifact(artifact)
	})
}

func (m *JobManager) MarkFailed(id string, err error) {
	msg := "generation failed"
	if err != nil {
		if s := strings.TrimSpace(err.Error()); s != "" {
			msg = s
		}
	}
	m.withJob(id, func(job *GenerationJob) {
		job.Status = JobStatusFailed
		job.Error = msg
		job.ErrorKind = services.KindOf(err)
	})
}

func (m *JobManager) withJob(id string, fn func(job *GenerationJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	fn(job)
	job.UpdatedAt = m.now()
}

func (m *JobManager) pruneLocked(now time.Time) {
	for id, job := range m.jobs {
		if job.finished() && now.Sub(job.UpdatedAt) > jobRetention {
			delete(m.jobs, id)
		}
	}
}

func (job *GenerationJob) finished() bool {
	return job.Status == JobStatusComplete || job.Status == JobStatusFailed
}

func (job *GenerationJob) clone() *GenerationJob {
	if job == nil {
		return nil
	}
	copyJob := *job
	copyJob.Result = cloneArtifact(job.Result)
	return &copyJob
}

func cloneArtifact(a *models.Artifact) *models.Artifact {
	if a == nil {
		return nil
	}
	out := *a
	out.Flashcards = slices.Clone(a.Flashcards)
	if a.Quiz != nil {
		out.Quiz = make([]models.QuizQuestion, len(a.Quiz))
		for i, q := range a.Quiz {
			q.Options = slices.Clone(q.Options)
			out.Quiz[i] = q
		}
	}
	return &out
}
