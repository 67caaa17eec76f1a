package dto

// GenerateScheduleRequest asks the generator to build the full recurring
// calendar for one student's program: a weekly main/short class pair at the
// chosen day/time coordinates.
type GenerateScheduleRequest struct {
	StudentID      string  `json:"studentId" validate:"required"`
	Program        string  `json:"program" validate:"required"`
	MainDayOfWeek  string  `json:"mainDayOfWeek" validate:"required"`
	MainClassTime  string  `json:"mainClassTime" validate:"required"`
	ShortDayOfWeek string  `json:"shortDayOfWeek" validate:"required"`
	ShortClassTime string  `json:"shortClassTime" validate:"required"`
	MeetingLink    *string `json:"meetingLink"`
}

// GenerateScheduleResponse summarises a completed bulk generation.
type GenerateScheduleResponse struct {
	StudentID          string      `json:"studentId"`
	Program            string      `json:"program"`
	OccurrencesCreated int         `json:"occurrencesCreated"`
	DurationYears      int         `json:"durationYears"`
	WeeksPerYear       int         `json:"weeksPerYear"`
	ActiveWeek         CurrentWeek `json:"activeWeek"`
}

// BookMakeupRequest books one ad-hoc half-hour makeup class. When classTime
// is empty the earliest free hour of the requested slot is used.
type BookMakeupRequest struct {
	StudentID    string  `json:"studentId" validate:"required"`
	Program      string  `json:"program" validate:"required"`
	AcademicYear int     `json:"academicYear" validate:"required,min=1"`
	WeekNumber   int     `json:"weekNumber" validate:"required,min=1"`
	DayOfWeek    string  `json:"dayOfWeek" validate:"required"`
	Slot         string  `json:"slot" validate:"required"`
	ClassTime    string  `json:"classTime"`
	MeetingLink  *string `json:"meetingLink"`
}

// RescheduleRequest moves one occurrence to a new day/time and optionally
// replaces its meeting link. Completion status is untouched.
type RescheduleRequest struct {
	DayOfWeek   string  `json:"dayOfWeek" validate:"required"`
	ClassTime   string  `json:"classTime" validate:"required"`
	MeetingLink *string `json:"meetingLink"`
}

// SlotUtilizationQuery selects the weekday/slot pair to inspect.
type SlotUtilizationQuery struct {
	Day  string `form:"day" json:"day"`
	Slot string `form:"slot" json:"slot"`
}

// SlotUtilization reports the booked/free hour partition for one weekday slot.
type SlotUtilization struct {
	DayOfWeek              string  `json:"dayOfWeek"`
	Slot                   string  `json:"slot"`
	TotalHours             int     `json:"totalHours"`
	BookedHours            []int   `json:"bookedHours"`
	FreeHours              []int   `json:"freeHours"`
	BookedCount            int     `json:"bookedCount"`
	FreeCount              int     `json:"freeCount"`
	UtilizationPercent     float64 `json:"utilizationPercent"`
	HasPartialAvailability bool    `json:"hasPartialAvailability"`
	SuggestedStartHour     *int    `json:"suggestedStartHour,omitempty"`
}
