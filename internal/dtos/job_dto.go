package dtos

import "github.com/justsurfingit/placement-portal/internal/models"

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

// JobRequest is the body of create and edit. Required fields are checked by
// the job service so the messages match across transports.
type JobRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description" binding:"max=20000"`
	Eligibility string `json:"eligibility" binding:"max=5000"`
	Location    string `json:"location" binding:"max=200"`
	LastDate    string `json:"last_date"` // YYYY-MM-DD
}

// JobDraft is what the extraction model fills in. Missing values are null.
type JobDraft struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Eligibility *string `json:"eligibility"`
	Location    *string `json:"location"`
	LastDate    *string `json:"last_date"`
}

type JobWithCount struct {
	models.Job
	AppCount int `json:"app_count"`
}
