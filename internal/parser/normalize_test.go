package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLowercasesAndCollapsesSpaces(t *testing.T) {
	assert.Equal(t, "принимать 500 мг", Normalize("Принимать   500мг"))
}

func TestNormalizeSplitsDigitsFromLetters(t *testing.T) {
	assert.Equal(t, "по 2 капли 3 раза", Normalize("по 2капли 3раза"))
	assert.Equal(t, "курс 7 дней", Normalize("курс7дней"))
}

func TestNormalizeRemovesFillerWords(t *testing.T) {
	assert.Equal(t, "по 2 капли утром", Normalize("ну значит по 2 капли утром"))
}

func TestNormalizeCollapsesDuplicatedTokens(t *testing.T) {
	assert.Equal(t, "по 2 капли", Normalize("по по 2 капли"))
	assert.Equal(t, "каждые 8 часов", Normalize("каждые каждые 8 часов"))
}

func TestNormalizeUnifiesLineBreaks(t *testing.T) {
	assert.Equal(t, "первый\nвторой", Normalize("Первый \r\n второй"))
	assert.Equal(t, "а б", Normalize("а\tб"))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Ну значит Амоксиклав по по 1 таблетке 2 раза в день",
		"Гексорал (спрей)  по 2впрыска\r\nкаждые 8 часов",
		"по 0,5 г утром и вечером",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input: %q", in)
	}
}
