package icpa

import (
	"time"

	"github.com/pkg/errors"
)

var (
	JobNotFoundErr  = errors.New("The delivery job was not found")
	DuplicateJobErr = errors.New("A delivery job with that id already exists")

	MissingRecipientErr = errors.New("Missing recipient")
	UnknownMediaKindErr = errors.New("Unknown media kind")
	InvalidDueTimeErr   = errors.New("The due time must be in the future")
	MediaUnavailableErr = errors.New("The media reference does not resolve")
)

// JobRepository is the sole source of truth for job existence and status.
type JobRepository interface {
	// Create inserts a new job row. DuplicateJobErr is returned when the
	// job id already exists.
	Create(job *DeliveryJob) error

	Get(jobId string) (DeliveryJob, error)

	// UpdateStatus overwrites the mutable delivery fields of a job. Last
	// write wins; only the dispatch path ever writes status.
	UpdateStatus(jobId string, status JobStatus, attemptedAt time.Time, lastError string) error

	// GetPending returns every job still in the scheduled state. Used by
	// recovery at startup.
	GetPending() ([]DeliveryJob, error)

	// GetAll returns every job, newest due time first.
	GetAll() ([]DeliveryJob, error)
}
