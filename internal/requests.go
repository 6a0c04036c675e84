package internal

import "time"

type SubmitMessageRequest struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"`
	Caption   string `json:"caption"`

	// Media carries an inline base64 payload; MediaPath references bytes
	// already known to the media store. Exactly one should be set.
	Media     string `json:"media,omitempty"`
	MediaPath string `json:"mediaPath,omitempty"`
	FileName  string `json:"fileName,omitempty"`

	// ScheduledAt absent means send as soon as possible.
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}
