package icpa

import "time"

type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusScheduled JobStatus = "scheduled"
	StatusSent      JobStatus = "sent"
	StatusError     JobStatus = "error"
)

// Terminal reports whether no further delivery attempt will ever happen for
// a job in this status.
func (s JobStatus) Terminal() bool {
	return s == StatusSent || s == StatusError
}

type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaDocument MediaKind = "document"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaImage, MediaDocument, MediaVideo, MediaAudio:
		return true
	}

	return false
}

// DeliveryJob is one persisted request to deliver a media payload. The row
// is created once by Submit and mutated exactly once more, by the dispatch
// recording the outcome of the single delivery attempt.
type DeliveryJob struct {
	JobId string `json:"jobId" sql:"job_id,pk"`

	Recipient    string    `json:"recipient"`
	MediaRef     string    `json:"mediaRef" sql:"media_ref"`
	ThumbnailRef string    `json:"thumbnailRef,omitempty" sql:"thumbnail_ref"`
	MediaKind    MediaKind `json:"mediaKind" sql:"media_kind"`
	Caption      string    `json:"caption,omitempty"`

	DueAt  time.Time `json:"dueAt" sql:"due_at"`
	Status JobStatus `json:"status"`

	LastAttemptAt *time.Time `json:"lastAttemptAt" sql:"last_attempt_at"`
	LastError     string     `json:"lastError,omitempty" sql:"last_error"`

	CreatedAt time.Time `json:"createdAt" sql:"created_at"`
}
