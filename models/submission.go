package models

import "time"

// Submission represents the submissions table. The project file itself lives
// in the external object store; only its URL and original name are kept here.
type Submission struct {
	SubmissionID  int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	TeamName      string     `gorm:"column:team_name" json:"team_name"`
	TeamNumber    string     `gorm:"column:team_number" json:"team_number"`
	LeaderEmail   string     `gorm:"column:leader_email" json:"leader_email"`
	FileURL       string     `gorm:"column:file_url" json:"file_url"`
	FileName      string     `gorm:"column:file_name" json:"file_name"`
	AssignedRater *string    `gorm:"column:assigned_rater" json:"assigned_rater,omitempty"`
	Rating        *int       `gorm:"column:rating" json:"rating,omitempty"`
	SubmittedAt   time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsAssigned reports whether the submission has been handed to a rater.
func (s *Submission) IsAssigned() bool {
	return s.AssignedRater != nil && *s.AssignedRater != ""
}

// IsRated reports whether a rater has recorded a score.
func (s *Submission) IsRated() bool {
	return s.Rating != nil
}
