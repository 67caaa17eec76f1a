package service

import (
	"math"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
)

// MilestoneTimeline maps absolute week numbers onto a program's milestone
// timeline. It never fails: out-of-range weeks resolve to the last milestone
// as completed, and programs without milestones fall back to a synthetic
// single-milestone timeline, so progress display always has something to
// render. The two cases are separate implementations so callers never branch
// on which one applies.
type MilestoneTimeline interface {
	Resolve(absoluteWeek int) dto.MilestoneProgress
	Entries(absoluteWeek int) []dto.TimelineEntry
}

// TimelineFor selects the timeline variant for the program.
func TimelineFor(program models.Program) MilestoneTimeline {
	if len(program.Milestones) == 0 {
		return syntheticTimeline{program: program}
	}
	return explicitTimeline{program: program}
}

type explicitTimeline struct {
	program models.Program
}

func (t explicitTimeline) Resolve(absoluteWeek int) dto.MilestoneProgress {
	if absoluteWeek < 1 {
		absoluteWeek = 1
	}
	for _, m := range t.program.Milestones {
		if absoluteWeek >= m.WeekStart && absoluteWeek <= m.WeekEnd {
			return milestoneProgress(m, absoluteWeek)
		}
	}
	// Past the final milestone: the curriculum is finished.
	last := t.program.Milestones[len(t.program.Milestones)-1]
	return completedMilestone(last)
}

func (t explicitTimeline) Entries(absoluteWeek int) []dto.TimelineEntry {
	entries := make([]dto.TimelineEntry, 0, len(t.program.Milestones))
	for _, m := range t.program.Milestones {
		entries = append(entries, timelineEntry(m, absoluteWeek))
	}
	return entries
}

// syntheticTimeline renders a single "Progress" milestone spanning the whole
// program when no explicit milestones are configured.
type syntheticTimeline struct {
	program models.Program
}

func (t syntheticTimeline) milestone() models.Milestone {
	return models.Milestone{
		ID:        1,
		Name:      "Progress",
		WeekStart: 1,
		WeekEnd:   t.program.TotalWeeks(),
	}
}

func (t syntheticTimeline) Resolve(absoluteWeek int) dto.MilestoneProgress {
	if absoluteWeek < 1 {
		absoluteWeek = 1
	}
	m := t.milestone()
	if absoluteWeek > m.WeekEnd {
		return completedMilestone(m)
	}
	return milestoneProgress(m, absoluteWeek)
}

func (t syntheticTimeline) Entries(absoluteWeek int) []dto.TimelineEntry {
	return []dto.TimelineEntry{timelineEntry(t.milestone(), absoluteWeek)}
}

func milestoneProgress(m models.Milestone, absoluteWeek int) dto.MilestoneProgress {
	weeksCompleted := absoluteWeek - m.WeekStart
	return dto.MilestoneProgress{
		MilestoneID:      m.ID,
		Name:             m.Name,
		Subtitle:         m.Subtitle,
		WeekStart:        m.WeekStart,
		WeekEnd:          m.WeekEnd,
		WeeksInMilestone: m.Weeks(),
		WeeksCompleted:   weeksCompleted,
		Progress:         int(math.Round(float64(weeksCompleted) / float64(m.Weeks()) * 100)),
		IsCompleted:      false,
	}
}

func completedMilestone(m models.Milestone) dto.MilestoneProgress {
	return dto.MilestoneProgress{
		MilestoneID:      m.ID,
		Name:             m.Name,
		Subtitle:         m.Subtitle,
		WeekStart:        m.WeekStart,
		WeekEnd:          m.WeekEnd,
		WeeksInMilestone: m.Weeks(),
		WeeksCompleted:   0,
		Progress:         100,
		IsCompleted:      true,
	}
}

func timelineEntry(m models.Milestone, absoluteWeek int) dto.TimelineEntry {
	entry := dto.TimelineEntry{
		MilestoneID: m.ID,
		Name:        m.Name,
		Subtitle:    m.Subtitle,
		WeekStart:   m.WeekStart,
		WeekEnd:     m.WeekEnd,
	}
	switch {
	case absoluteWeek > m.WeekEnd:
		entry.Status = dto.TimelineCompleted
		entry.Progress = 100
	case absoluteWeek < m.WeekStart:
		entry.Status = dto.TimelineUpcoming
		entry.Progress = 0
	default:
		entry.Status = dto.TimelineActive
		entry.Progress = milestoneProgress(m, absoluteWeek).Progress
	}
	return entry
}
