package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDosageNumericFamilies(t *testing.T) {
	cases := []struct {
		segment string
		want    string
	}{
		{"по 2 кап 3 раза в день", "2 капли"},
		{"по 2 капли в обе ноздри", "2 капли"},
		{"по 1 таблетке 2 раза в день", "1 таблетки"},
		{"по 2 таб утром", "2 таблетки"},
		{"по 2 капсулы после еды", "2 капсулы"},
		{"по 1 дозе в каждый носовой ход", "1 дозы"},
		{"по 2 впрыска 3 раза в день", "2 впрыска"},
		{"по 5 мл перед сном", "5 мл"},
	}
	for _, tc := range cases {
		got, ok := extractDosage(tc.segment)
		assert.True(t, ok, "segment: %q", tc.segment)
		assert.Equal(t, tc.want, got, "segment: %q", tc.segment)
	}
}

func TestExtractDosageCapsulesDoNotMatchAsDrops(t *testing.T) {
	// "капсул" comparte prefijo con "кап"; el orden de familias lo resuelve
	got, ok := extractDosage("по 2 капсулы 2 раза в день")
	assert.True(t, ok)
	assert.Equal(t, "2 капсулы", got)
}

func TestExtractDosageCompactUnits(t *testing.T) {
	cases := []struct {
		segment string
		want    string
	}{
		{"принимать 500 мг 2 раза в день", "500 мг"},
		{"по 0.5 г утром", "0.5 г"},
		{"по 0,5 г утром", "0.5 г"},
		{"из расчета 5 мг/кг в сутки", "5 мг/кг"},
		{"по 10 мкг на прием", "10 мкг"},
	}
	for _, tc := range cases {
		got, ok := extractDosage(tc.segment)
		assert.True(t, ok, "segment: %q", tc.segment)
		assert.Equal(t, tc.want, got, "segment: %q", tc.segment)
	}
}

func TestExtractDosageTextualNumerals(t *testing.T) {
	got, ok := extractDosage("по две капли 3 раза в день")
	assert.True(t, ok)
	assert.Equal(t, "2 капли", got)

	got, ok = extractDosage("по одной таблетке утром")
	assert.True(t, ok)
	assert.Equal(t, "1 таблетки", got)

	got, ok = extractDosage("принимать одну таблетку на ночь")
	assert.True(t, ok)
	assert.Equal(t, "1 таблетки", got)
}

func TestExtractDosageAbsent(t *testing.T) {
	_, ok := extractDosage("принимать утром и вечером")
	assert.False(t, ok)
}
