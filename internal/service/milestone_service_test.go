package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
)

func essentialsProgram(t *testing.T) models.Program {
	t.Helper()
	catalog, err := models.NewProgramCatalog(models.DefaultPrograms())
	require.NoError(t, err)
	program, ok := catalog.Find("essentials")
	require.True(t, ok)
	return program
}

func TestTimelineResolveWithinMilestone(t *testing.T) {
	timeline := TimelineFor(essentialsProgram(t))

	// Week 21 is the first week of Reading Fluency (weeks 21-52).
	progress := timeline.Resolve(21)
	assert.Equal(t, 2, progress.MilestoneID)
	assert.Equal(t, "Reading Fluency", progress.Name)
	assert.Equal(t, 0, progress.WeeksCompleted)
	assert.Equal(t, 0, progress.Progress)
	assert.False(t, progress.IsCompleted)

	// Week 10 is halfway through Qaidah: 9 of 20 weeks behind us.
	progress = timeline.Resolve(10)
	assert.Equal(t, 1, progress.MilestoneID)
	assert.Equal(t, 9, progress.WeeksCompleted)
	assert.Equal(t, 45, progress.Progress)
}

func TestTimelineResolveIsTotal(t *testing.T) {
	program := essentialsProgram(t)
	timeline := TimelineFor(program)

	// Every week from before the program to well past its end resolves to
	// some milestone with progress in [0, 100].
	for w := -5; w <= program.TotalWeeks()+50; w++ {
		progress := timeline.Resolve(w)
		assert.NotZero(t, progress.MilestoneID, "week %d", w)
		assert.GreaterOrEqual(t, progress.Progress, 0, "week %d", w)
		assert.LessOrEqual(t, progress.Progress, 100, "week %d", w)
	}
}

func TestTimelineResolveBeyondRange(t *testing.T) {
	program := essentialsProgram(t)
	timeline := TimelineFor(program)

	progress := timeline.Resolve(program.TotalWeeks() + 1)
	assert.Equal(t, "Juz Amma", progress.Name)
	assert.Equal(t, 100, progress.Progress)
	assert.True(t, progress.IsCompleted)
}

func TestTimelineEntriesStatuses(t *testing.T) {
	timeline := TimelineFor(essentialsProgram(t))

	entries := timeline.Entries(25)
	require.Len(t, entries, 4)
	assert.Equal(t, dto.TimelineCompleted, entries[0].Status)
	assert.Equal(t, 100, entries[0].Progress)
	assert.Equal(t, dto.TimelineActive, entries[1].Status)
	assert.Equal(t, dto.TimelineUpcoming, entries[2].Status)
	assert.Equal(t, dto.TimelineUpcoming, entries[3].Status)
	assert.Equal(t, 0, entries[3].Progress)
}

func TestSyntheticTimelineForPlainProgram(t *testing.T) {
	program := models.Program{ID: "intensive", DurationYears: 1, WeeksPerYear: 12}
	timeline := TimelineFor(program)

	progress := timeline.Resolve(7)
	assert.Equal(t, 1, progress.MilestoneID)
	assert.Equal(t, "Progress", progress.Name)
	assert.Equal(t, 12, progress.WeeksInMilestone)
	assert.Equal(t, 50, progress.Progress)

	entries := timeline.Entries(7)
	require.Len(t, entries, 1)
	assert.Equal(t, dto.TimelineActive, entries[0].Status)

	done := timeline.Resolve(13)
	assert.True(t, done.IsCompleted)
	assert.Equal(t, 100, done.Progress)
}
