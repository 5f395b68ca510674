package rota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaffingLevel(t *testing.T) {
	cases := []struct {
		required, available int
		want                Level
	}{
		{0, 0, LevelAdequate},
		{0, 5, LevelAdequate},
		{-1, 0, LevelAdequate},
		{4, 4, LevelAdequate},
		{4, 6, LevelAdequate},
		{4, 3, LevelLow},
		{4, 2, LevelLow},
		{2, 1, LevelLow},
		{5, 2, LevelCritical},
		{4, 1, LevelCritical},
		{3, 0, LevelCritical},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StaffingLevel(tc.required, tc.available),
			"required=%d available=%d", tc.required, tc.available)
	}
}

func TestLevelAlertType(t *testing.T) {
	assert.False(t, LevelAdequate.NeedsAlert())
	assert.True(t, LevelLow.NeedsAlert())
	assert.True(t, LevelCritical.NeedsAlert())

	assert.Equal(t, AlertTypeLowStaff, LevelLow.AlertType())
	assert.Equal(t, AlertTypeCritical, LevelCritical.AlertType())
}

func TestAlertSlots(t *testing.T) {
	assert.Equal(t, []Slot{
		{Start: "08:00:00", End: "20:00:00"},
		{Start: "20:00:00", End: "08:00:00"},
	}, AlertSlots(true, &Window{OpensAt: "09:00:00", ClosesAt: "10:00:00"}))

	assert.Equal(t, []Slot{{Start: "08:00:00", End: "17:00:00"}}, AlertSlots(false, nil))

	assert.Equal(t, []Slot{{Start: "07:30:00", End: "19:00:00"}},
		AlertSlots(false, &Window{OpensAt: "07:30:00", ClosesAt: "19:00:00"}))
}
