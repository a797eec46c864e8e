package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinutesToSeconds(t *testing.T) {
	testCases := []struct {
		name    string
		minutes uint32
		want    uint32
	}{
		{name: "zero", minutes: 0, want: 0},
		{name: "default work", minutes: 25, want: 1500},
		{name: "largest exact", minutes: math.MaxUint32 / 60, want: (math.MaxUint32 / 60) * 60},
		{name: "saturates", minutes: math.MaxUint32/60 + 1, want: math.MaxUint32},
		{name: "max input", minutes: math.MaxUint32, want: math.MaxUint32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MinutesToSeconds(tc.minutes))
		})
	}
}

func TestPresetApplyKeepsFlags(t *testing.T) {
	base := DefaultPomodoroSettings()
	base.AutoLongBreak = false
	base.PauseMusicOnBreak = true

	preset, ok := LookupPreset("Deep 50/10")
	assert.True(t, ok)

	got := preset.Apply(base)
	assert.Equal(t, uint32(50), got.WorkMinutes)
	assert.Equal(t, uint32(10), got.ShortBreakMinutes)
	assert.Equal(t, uint32(20), got.LongBreakMinutes)
	assert.Equal(t, uint32(3), got.SessionsBeforeLongBreak)
	assert.False(t, got.AutoLongBreak)
	assert.True(t, got.PauseMusicOnBreak)
}

func TestLookupPresetUnknown(t *testing.T) {
	_, ok := LookupPreset("Marathon")
	assert.False(t, ok)
}

func TestMatchPreset(t *testing.T) {
	assert.Equal(t, "Classic 25/5", MatchPreset(DefaultPomodoroSettings()))

	custom := DefaultPomodoroSettings()
	custom.WorkMinutes = 42
	assert.Equal(t, "", MatchPreset(custom))
}

func TestPresetNamesOrder(t *testing.T) {
	assert.Equal(t, []string{"Classic 25/5", "Quick 15/3", "Deep 50/10", "Gentle 20/5"}, PresetNames())
}
