package models

import (
	"fmt"
)

// Milestone is a named contiguous range of curriculum weeks used for
// progress display. Week bounds are absolute (1..TotalWeeks).
type Milestone struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Subtitle  string `json:"subtitle,omitempty"`
	WeekStart int    `json:"week_start"`
	WeekEnd   int    `json:"week_end"`
}

// Weeks returns the number of weeks the milestone spans.
func (m Milestone) Weeks() int {
	return m.WeekEnd - m.WeekStart + 1
}

// Program is the static curriculum definition for one enrollment track.
// Programs are configuration, not user-editable data.
type Program struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	DurationYears int         `json:"duration_years"`
	WeeksPerYear  int         `json:"weeks_per_year"`
	Milestones    []Milestone `json:"milestones"`
}

// TotalWeeks returns the full curriculum span in weeks.
func (p Program) TotalWeeks() int {
	return p.DurationYears * p.WeeksPerYear
}

// AbsoluteWeek converts a (year, week) pair into an absolute week number.
func (p Program) AbsoluteWeek(year, week int) int {
	return (year-1)*p.WeeksPerYear + week
}

// Validate checks the structural invariants of a program definition: positive
// duration and a milestone list that partitions 1..TotalWeeks exactly once,
// in order, with contiguous 1-based ids.
func (p Program) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("program id is required")
	}
	if p.DurationYears < 1 {
		return fmt.Errorf("program %s: durationYears must be positive", p.ID)
	}
	if p.WeeksPerYear < 1 {
		return fmt.Errorf("program %s: weeksPerYear must be positive", p.ID)
	}
	if len(p.Milestones) == 0 {
		return nil
	}

	expectedStart := 1
	for i, m := range p.Milestones {
		if m.ID != i+1 {
			return fmt.Errorf("program %s: milestone ids must be contiguous starting at 1, got %d at position %d", p.ID, m.ID, i)
		}
		if m.Name == "" {
			return fmt.Errorf("program %s: milestone %d has no name", p.ID, m.ID)
		}
		if m.WeekStart != expectedStart {
			return fmt.Errorf("program %s: milestone %d starts at week %d, expected %d", p.ID, m.ID, m.WeekStart, expectedStart)
		}
		if m.WeekEnd < m.WeekStart {
			return fmt.Errorf("program %s: milestone %d ends before it starts", p.ID, m.ID)
		}
		expectedStart = m.WeekEnd + 1
	}
	if last := p.Milestones[len(p.Milestones)-1]; last.WeekEnd != p.TotalWeeks() {
		return fmt.Errorf("program %s: milestones cover weeks 1..%d, expected 1..%d", p.ID, last.WeekEnd, p.TotalWeeks())
	}
	return nil
}

// ProgramCatalog holds the programs offered by the academy, keyed by id.
type ProgramCatalog struct {
	programs []Program
	byID     map[string]Program
}

// NewProgramCatalog validates every program and builds the lookup index.
func NewProgramCatalog(programs []Program) (*ProgramCatalog, error) {
	byID := make(map[string]Program, len(programs))
	for _, p := range programs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate program id %s", p.ID)
		}
		byID[p.ID] = p
	}
	return &ProgramCatalog{programs: programs, byID: byID}, nil
}

// List returns programs in catalogue order.
func (c *ProgramCatalog) List() []Program {
	out := make([]Program, len(c.programs))
	copy(out, c.programs)
	return out
}

// Find returns the program for the given id.
func (c *ProgramCatalog) Find(id string) (Program, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// DefaultPrograms returns the curriculum definitions shipped with the API.
func DefaultPrograms() []Program {
	return []Program{
		{
			ID:            "essentials",
			Name:          "Essentials",
			DurationYears: 2,
			WeeksPerYear:  52,
			Milestones: []Milestone{
				{ID: 1, Name: "Qaidah", Subtitle: "Letter recognition and joining", WeekStart: 1, WeekEnd: 20},
				{ID: 2, Name: "Reading Fluency", Subtitle: "Guided recitation practice", WeekStart: 21, WeekEnd: 52},
				{ID: 3, Name: "Tajweed Rules", Subtitle: "Applied pronunciation rules", WeekStart: 53, WeekEnd: 78},
				{ID: 4, Name: "Juz Amma", Subtitle: "Memorisation and revision", WeekStart: 79, WeekEnd: 104},
			},
		},
		{
			ID:            "tajweed",
			Name:          "Tajweed",
			DurationYears: 1,
			WeeksPerYear:  24,
			Milestones: []Milestone{
				{ID: 1, Name: "Articulation Points", Subtitle: "Makharij of the letters", WeekStart: 1, WeekEnd: 8},
				{ID: 2, Name: "Noon & Meem Rules", Subtitle: "Ikhfa, idgham and related rules", WeekStart: 9, WeekEnd: 16},
				{ID: 3, Name: "Madd & Application", Subtitle: "Elongation rules in recitation", WeekStart: 17, WeekEnd: 24},
			},
		},
	}
}
