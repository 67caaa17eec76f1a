package dto

import "time"

// CurrentWeek is the first not-fully-completed (year, week) pair in a
// student's program calendar.
type CurrentWeek struct {
	AcademicYear int `json:"academicYear"`
	WeekNumber   int `json:"weekNumber"`
}

// MilestoneProgress positions an absolute week inside its milestone.
type MilestoneProgress struct {
	MilestoneID      int    `json:"milestoneId"`
	Name             string `json:"name"`
	Subtitle         string `json:"subtitle,omitempty"`
	WeekStart        int    `json:"weekStart"`
	WeekEnd          int    `json:"weekEnd"`
	WeeksInMilestone int    `json:"weeksInMilestone"`
	WeeksCompleted   int    `json:"weeksCompleted"`
	Progress         int    `json:"progress"`
	IsCompleted      bool   `json:"isCompleted"`
}

// Timeline entry statuses.
const (
	TimelineCompleted = "completed"
	TimelineActive    = "active"
	TimelineUpcoming  = "upcoming"
)

// TimelineEntry is one milestone on the named-milestone progress timeline.
type TimelineEntry struct {
	MilestoneID int    `json:"milestoneId"`
	Name        string `json:"name"`
	Subtitle    string `json:"subtitle,omitempty"`
	WeekStart   int    `json:"weekStart"`
	WeekEnd     int    `json:"weekEnd"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
}

// ProgressSnapshot is the derived view-state the reporting UI renders for a
// student+program pair.
type ProgressSnapshot struct {
	StudentID      string            `json:"studentId"`
	Program        string            `json:"program"`
	CurrentWeek    CurrentWeek       `json:"currentWeek"`
	AbsoluteWeek   int               `json:"absoluteWeek"`
	Milestone      MilestoneProgress `json:"milestone"`
	Timeline       []TimelineEntry   `json:"timeline"`
	TotalScheduled int               `json:"totalScheduled"`
	TotalCompleted int               `json:"totalCompleted"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}
