package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProgramsCoverEveryWeek(t *testing.T) {
	for _, program := range DefaultPrograms() {
		require.NoError(t, program.Validate(), program.ID)

		covered := make(map[int]int)
		for _, m := range program.Milestones {
			for w := m.WeekStart; w <= m.WeekEnd; w++ {
				covered[w]++
			}
		}
		for w := 1; w <= program.TotalWeeks(); w++ {
			assert.Equal(t, 1, covered[w], "program %s week %d", program.ID, w)
		}
		assert.Len(t, covered, program.TotalWeeks(), program.ID)
	}
}

func TestProgramValidateRejectsGaps(t *testing.T) {
	program := Program{
		ID:            "broken",
		DurationYears: 1,
		WeeksPerYear:  10,
		Milestones: []Milestone{
			{ID: 1, Name: "A", WeekStart: 1, WeekEnd: 4},
			{ID: 2, Name: "B", WeekStart: 6, WeekEnd: 10},
		},
	}
	assert.Error(t, program.Validate())
}

func TestProgramValidateRejectsShortCoverage(t *testing.T) {
	program := Program{
		ID:            "short",
		DurationYears: 1,
		WeeksPerYear:  10,
		Milestones: []Milestone{
			{ID: 1, Name: "A", WeekStart: 1, WeekEnd: 8},
		},
	}
	assert.Error(t, program.Validate())
}

func TestProgramValidateAllowsNoMilestones(t *testing.T) {
	program := Program{ID: "plain", DurationYears: 1, WeeksPerYear: 12}
	assert.NoError(t, program.Validate())
}

func TestAbsoluteWeek(t *testing.T) {
	essentials := Program{DurationYears: 2, WeeksPerYear: 52}
	assert.Equal(t, 1, essentials.AbsoluteWeek(1, 1))
	assert.Equal(t, 52, essentials.AbsoluteWeek(1, 52))
	assert.Equal(t, 53, essentials.AbsoluteWeek(2, 1))
	assert.Equal(t, 104, essentials.AbsoluteWeek(2, 52))
}

func TestNewProgramCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewProgramCatalog([]Program{
		{ID: "a", DurationYears: 1, WeeksPerYear: 10},
		{ID: "a", DurationYears: 1, WeeksPerYear: 12},
	})
	assert.Error(t, err)
}

func TestProgramCatalogFind(t *testing.T) {
	catalog, err := NewProgramCatalog(DefaultPrograms())
	require.NoError(t, err)

	program, ok := catalog.Find("tajweed")
	require.True(t, ok)
	assert.Equal(t, 24, program.TotalWeeks())

	_, ok = catalog.Find("nonexistent")
	assert.False(t, ok)
}
