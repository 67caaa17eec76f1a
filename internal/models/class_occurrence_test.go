package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassTime(t *testing.T) {
	hour, minute, err := ParseClassTime("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18, hour)
	assert.Equal(t, 30, minute)

	for _, raw := range []string{"", "18", "24:00", "12:60", "ab:cd", "18.30"} {
		_, _, err := ParseClassTime(raw)
		assert.Error(t, err, raw)
	}
}

func TestNormalizeDayOfWeek(t *testing.T) {
	day, err := NormalizeDayOfWeek(" monday ")
	require.NoError(t, err)
	assert.Equal(t, "Monday", day)

	day, err = NormalizeDayOfWeek("SATURDAY")
	require.NoError(t, err)
	assert.Equal(t, "Saturday", day)

	_, err = NormalizeDayOfWeek("someday")
	assert.Error(t, err)
}

func TestClassTypeDurations(t *testing.T) {
	assert.Equal(t, 2.0, ClassTypeMain.DurationHours())
	assert.Equal(t, 0.5, ClassTypeShort.DurationHours())
	assert.Equal(t, 0.5, ClassTypeMakeup.DurationHours())

	assert.True(t, ClassTypeMain.Valid())
	assert.False(t, ClassType("weekly").Valid())
}

func TestSlotCatalogFindIsCaseInsensitive(t *testing.T) {
	catalog := NewSlotCatalog(DefaultTimeSlots())

	slot, ok := catalog.Find("evening")
	require.True(t, ok)
	assert.Equal(t, []int{17, 18, 19, 20}, slot.Hours)

	_, ok = catalog.Find("midnight")
	assert.False(t, ok)
}
