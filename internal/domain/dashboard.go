package domain

import "time"

// DashboardStats is the aggregate snapshot shown on the panel home screen.
// It is cached, so GeneratedAt tells the reader how stale the numbers are.
type DashboardStats struct {
	CasesByStatus           map[string]int `json:"cases_by_status"`
	InquiriesByStatus       map[string]int `json:"inquiries_by_status"`
	PendingAlertsByPriority map[string]int `json:"pending_alerts_by_priority"`
	GeneratedAt             time.Time      `json:"generated_at"`
}
