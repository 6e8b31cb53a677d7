package models

import "time"

// Announcement is a board communication fanned out over email and push.
type Announcement struct {
	ID        string     `bson:"id" json:"id"`
	Subject   string     `bson:"subject" json:"subject"`
	Body      string     `bson:"body" json:"body"`
	AuthorID  string     `bson:"author_id" json:"authorId"`
	SentAt    *time.Time `bson:"sent_at,omitempty" json:"sentAt,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
}

// EmailTaskPayload is the asynq payload for one outbound email.
type EmailTaskPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DataRequestTaskPayload is the asynq payload for an export/deletion job.
type DataRequestTaskPayload struct {
	RequestID string `json:"requestId"`
}
