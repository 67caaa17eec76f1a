package models

import "strings"

// TimeSlot is a named block of the day used as the booking granularity.
// Hours are integer hour-of-day values in ascending order.
type TimeSlot struct {
	Label string `json:"label"`
	Hours []int  `json:"hours"`
}

// TotalHours returns the number of bookable hour buckets in the slot.
func (s TimeSlot) TotalHours() int {
	return len(s.Hours)
}

// Contains reports whether the given hour falls inside the slot.
func (s TimeSlot) Contains(hour int) bool {
	for _, h := range s.Hours {
		if h == hour {
			return true
		}
	}
	return false
}

// SlotCatalog holds the bookable day grid, keyed by label.
type SlotCatalog struct {
	slots   []TimeSlot
	byLabel map[string]TimeSlot
}

// NewSlotCatalog indexes the provided slots by lower-cased label.
func NewSlotCatalog(slots []TimeSlot) *SlotCatalog {
	byLabel := make(map[string]TimeSlot, len(slots))
	for _, s := range slots {
		byLabel[strings.ToLower(s.Label)] = s
	}
	return &SlotCatalog{slots: slots, byLabel: byLabel}
}

// List returns slots in catalogue order.
func (c *SlotCatalog) List() []TimeSlot {
	out := make([]TimeSlot, len(c.slots))
	copy(out, c.slots)
	return out
}

// Find returns the slot with the given label, case-insensitively.
func (c *SlotCatalog) Find(label string) (TimeSlot, bool) {
	s, ok := c.byLabel[strings.ToLower(strings.TrimSpace(label))]
	return s, ok
}

// DefaultTimeSlots returns the day grid the academy books classes against.
func DefaultTimeSlots() []TimeSlot {
	return []TimeSlot{
		{Label: "Morning", Hours: []int{6, 7, 8, 9, 10}},
		{Label: "Afternoon", Hours: []int{12, 13, 14, 15, 16}},
		{Label: "Evening", Hours: []int{17, 18, 19, 20}},
		{Label: "Night", Hours: []int{21, 22}},
	}
}
