package model

import "time"

// Video status enum as stored in the library.
const (
	VideoStatusUploaded  = "uploaded"
	VideoStatusPublished = "published"
	VideoStatusFailed    = "failed"
	VideoStatusScheduled = "scheduled"
)

// Project is one session-scoped project record.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Platforms  []string  `json:"platforms"`
	Videos     int       `json:"videos"`
	LastActive string    `json:"lastActive"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Video is one session-scoped video record referencing a project.
type Video struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	PublishID string    `json:"publishId,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats aggregates video counts by status for one session.
type Stats struct {
	Uploaded  int `json:"uploaded"`
	Scheduled int `json:"scheduled"`
	Published int `json:"published"`
	Errors    int `json:"errors"`
}
