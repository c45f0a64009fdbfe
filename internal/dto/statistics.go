package dto

import "time"

// OverviewStats summarizes the defects visible to the caller.
type OverviewStats struct {
	TotalDefects      int64          `json:"total_defects"`
	DefectsByStatus   map[uint64]int `json:"defects_by_status"`
	DefectsByPriority map[int16]int  `json:"defects_by_priority"`
	RecentDefects     []RecentDefect `json:"recent_defects"`
}

// RecentDefect is a compact row for the overview list.
type RecentDefect struct {
	DefectID        uint64    `json:"defect_id"`
	DefectName      string    `json:"defect_name"`
	ProjectName     string    `json:"project_name"`
	StatusName      string    `json:"status_name"`
	ResponsibleName string    `json:"responsible_name"`
	CreatedDate     time.Time `json:"created_date"`
	Priority        int16     `json:"priority"`
}

// StatusStats is the per-status distribution.
type StatusStats struct {
	StatusID   uint64  `json:"status_id"`
	StatusName string  `json:"status_name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ProjectStats is the per-project distribution.
type ProjectStats struct {
	ProjectID           uint64 `json:"project_id"`
	ProjectName         string `json:"project_name"`
	TotalDefects        int    `json:"total_defects"`
	OpenDefects         int    `json:"open_defects"`
	ClosedDefects       int    `json:"closed_defects"`
	HighPriorityDefects int    `json:"high_priority_defects"`
}

// UserStats is the per-assignee workload view.
type UserStats struct {
	UserID                uint64   `json:"user_id"`
	DisplayName           string   `json:"display_name"`
	RoleName              string   `json:"role_name"`
	TotalAssignedDefects  int      `json:"total_assigned_defects"`
	OpenDefects           int      `json:"open_defects"`
	ClosedDefects         int      `json:"closed_defects"`
	OverdueDefects        int      `json:"overdue_defects"`
	AverageCompletionDays *float64 `json:"average_completion_days"`
}

// TimelineStats is one day of created/closed counts.
type TimelineStats struct {
	Date         time.Time `json:"date"`
	CreatedCount int       `json:"created_count"`
	ClosedCount  int       `json:"closed_count"`
}

// PriorityMetrics aggregates the priority banding. Banding is uniform:
// low == 1, medium == 2, high >= 3.
type PriorityMetrics struct {
	TotalDefects        int     `json:"total_defects"`
	AveragePriority     float64 `json:"average_priority"`
	HighPriorityCount   int     `json:"high_priority_count"`
	MediumPriorityCount int     `json:"medium_priority_count"`
	LowPriorityCount    int     `json:"low_priority_count"`
	OverdueHighPriority int     `json:"overdue_high_priority"`
}

// ProjectDetailStats is the drill-down view of one project.
type ProjectDetailStats struct {
	ProjectID        uint64         `json:"project_id"`
	ProjectName      string         `json:"project_name"`
	ProjectStatus    string         `json:"project_status"`
	TotalDefects     int            `json:"total_defects"`
	DefectsByStatus  map[uint64]int `json:"defects_by_status"`
	AveragePriority  float64        `json:"average_priority"`
	OldestOpenDefect *string        `json:"oldest_open_defect"`
	CompletionRate   float64        `json:"completion_rate"`
}
