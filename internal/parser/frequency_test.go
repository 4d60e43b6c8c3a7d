package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFrequencyExplicit(t *testing.T) {
	cases := []struct {
		segment string
		want    int
	}{
		{"по 2 капли 3 раза в день", 3},
		{"принимать 1 раз в день", 1},
		{"по 1 таблетке 2 р/д", 2},
		{"два раза в день после еды", 2},
		{"по 5 мл четыре раза в день", 4},
	}
	for _, tc := range cases {
		freq, ok := extractFrequency(tc.segment)
		assert.True(t, ok, "segment: %q", tc.segment)
		assert.Equal(t, tc.want, freq.TimesPerDay, "segment: %q", tc.segment)
		assert.Zero(t, freq.Alternative, "segment: %q", tc.segment)
	}
}

func TestExtractFrequencyFromInterval(t *testing.T) {
	cases := []struct {
		segment string
		want    int
	}{
		{"каждые 8 часов", 3},
		{"каждые 12 часов", 2},
		{"через 6 часов повторить", 4},
		{"каждые шесть часов", 4},
		{"каждые 8:00 принимать", 3},
	}
	for _, tc := range cases {
		freq, ok := extractFrequency(tc.segment)
		assert.True(t, ok, "segment: %q", tc.segment)
		assert.Equal(t, tc.want, freq.TimesPerDay, "segment: %q", tc.segment)
	}
}

func TestExtractFrequencyConflictKeepsAlternative(t *testing.T) {
	freq, ok := extractFrequency("по 2 капли 2 раза в день каждые 8 часов")
	assert.True(t, ok)
	assert.Equal(t, 2, freq.TimesPerDay)
	assert.Equal(t, 3, freq.Alternative)
}

func TestExtractFrequencyAgreementHasNoAlternative(t *testing.T) {
	freq, ok := extractFrequency("2 раза в день каждые 12 часов")
	assert.True(t, ok)
	assert.Equal(t, 2, freq.TimesPerDay)
	assert.Zero(t, freq.Alternative)
}

func TestExtractFrequencyPartOfDay(t *testing.T) {
	cases := []struct {
		segment string
		want    int
	}{
		{"принимать утром и вечером", 2},
		{"закапывать только утром", 1},
		{"пить утром, днем и вечером", 3},
	}
	for _, tc := range cases {
		freq, ok := extractFrequency(tc.segment)
		assert.True(t, ok, "segment: %q", tc.segment)
		assert.Equal(t, tc.want, freq.TimesPerDay, "segment: %q", tc.segment)
	}
}

func TestExtractFrequencyAbsent(t *testing.T) {
	_, ok := extractFrequency("по 2 капли в каждый носовой ход")
	assert.False(t, ok)
}

func TestTimesFromIntervalNeverBelowOne(t *testing.T) {
	assert.Equal(t, 1, timesFromInterval(24))
	assert.Equal(t, 1, timesFromInterval(48))
	assert.Equal(t, 24, timesFromInterval(1))
}
