package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Student represents a learner enrolled at the academy.
type Student struct {
	ID          string         `db:"id" json:"id"`
	FullName    string         `db:"full_name" json:"full_name"`
	Email       string         `db:"email" json:"email"`
	Timezone    string         `db:"timezone" json:"timezone"`
	Preferences types.JSONText `db:"preferences" json:"-"`
	Active      bool           `db:"active" json:"active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AvailabilityPreference is the read-only booking preference captured during
// admission: preferred weekdays, preferred slot labels and the student's
// timezone. It pre-fills the generator's day/time fields in the admin UI.
type AvailabilityPreference struct {
	PreferredDays  []string `json:"preferred_days"`
	PreferredTimes []string `json:"preferred_times"`
	Timezone       string   `json:"timezone"`
}

// Availability decodes the stored preference payload. A missing or malformed
// payload yields an empty preference rather than an error.
func (s Student) Availability() AvailabilityPreference {
	pref := AvailabilityPreference{Timezone: s.Timezone}
	if len(s.Preferences) == 0 {
		return pref
	}
	var stored AvailabilityPreference
	if err := json.Unmarshal(s.Preferences, &stored); err != nil {
		return pref
	}
	stored.Timezone = s.Timezone
	return stored
}
