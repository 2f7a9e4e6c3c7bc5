package dtos

import "github.com/justsurfingit/placement-portal/internal/models"

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=applied selected rejected"`
}

type ApplyResponse struct {
	ApplicationID string `json:"application_id"`
	ResumeURL     string `json:"resume_url"`
	// Fallback is set when the blob upload failed and a placeholder was stored.
	Fallback bool `json:"fallback,omitempty"`
}

type AppliedResponse struct {
	Applied bool `json:"applied"`
}

// Funnel is the admin's three-stage summary.
type Funnel struct {
	JobsPosted        int `json:"jobs_posted"`
	TotalApplications int `json:"total_applications"`
	TotalSelected     int `json:"total_selected"`
}

type AdminDashboard struct {
	Jobs   []JobWithCount `json:"jobs"`
	Funnel Funnel         `json:"funnel"`
}

type StudentSummary struct {
	Total    int `json:"total"`
	Applied  int `json:"applied"`
	Selected int `json:"selected"`
	Rejected int `json:"rejected"`
	// Step drives the progress tracker: 1 nothing yet, 2 applied, 3 selected.
	Step int `json:"step"`
}

type StudentDashboard struct {
	Applications []models.Application `json:"applications"`
	Summary      StudentSummary       `json:"summary"`
}
