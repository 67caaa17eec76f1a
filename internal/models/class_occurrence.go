package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClassType distinguishes the weekly class pair from ad-hoc bookings.
type ClassType string

const (
	// ClassTypeMain is the weekly 2-hour lesson.
	ClassTypeMain ClassType = "main"
	// ClassTypeShort is the weekly half-hour revision session.
	ClassTypeShort ClassType = "short"
	// ClassTypeMakeup is an ad-hoc half-hour booking outside the generated pair.
	ClassTypeMakeup ClassType = "makeup"
)

// DurationHours returns the booked duration for the class type.
func (t ClassType) DurationHours() float64 {
	if t == ClassTypeMain {
		return 2
	}
	return 0.5
}

// Valid reports whether the value is a known class type.
func (t ClassType) Valid() bool {
	switch t {
	case ClassTypeMain, ClassTypeShort, ClassTypeMakeup:
		return true
	}
	return false
}

// OccurrenceStatus tracks the lifecycle of a scheduled class.
type OccurrenceStatus string

const (
	OccurrenceScheduled OccurrenceStatus = "scheduled"
	OccurrenceCompleted OccurrenceStatus = "completed"
)

// ClassOccurrence is one concrete scheduled meeting for a student within a
// program, positioned by (academic year, week number).
type ClassOccurrence struct {
	ID           string           `db:"id" json:"id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	Program      string           `db:"program" json:"program"`
	AcademicYear int              `db:"academic_year" json:"academic_year"`
	WeekNumber   int              `db:"week_number" json:"week_number"`
	ClassType    ClassType        `db:"class_type" json:"class_type"`
	DayOfWeek    string           `db:"day_of_week" json:"day_of_week"`
	ClassTime    string           `db:"class_time" json:"class_time"`
	MeetingLink  *string          `db:"meeting_link" json:"meeting_link,omitempty"`
	Status       OccurrenceStatus `db:"status" json:"status"`
	CompletedAt  *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// StartHour parses the occurrence start hour from its class time.
func (o ClassOccurrence) StartHour() (int, error) {
	hour, _, err := ParseClassTime(o.ClassTime)
	return hour, err
}

// OccurrenceFilter narrows occurrence listings.
type OccurrenceFilter struct {
	Program   string
	DayOfWeek string
	ClassType ClassType
}

// ParseClassTime parses a 24-hour "HH:MM" time-of-day string.
func ParseClassTime(raw string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("class time %q is not in HH:MM format", raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("class time %q has invalid hour", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("class time %q has invalid minute", raw)
	}
	return hour, minute, nil
}

var weekdayNames = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
	"sunday":    "Sunday",
}

// NormalizeDayOfWeek canonicalises a weekday name, rejecting unknown values.
func NormalizeDayOfWeek(raw string) (string, error) {
	name, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("unknown day of week %q", raw)
	}
	return name, nil
}
