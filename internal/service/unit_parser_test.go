package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
)

func TestParseUnit(t *testing.T) {
	text := "#unidad1\nel hijo = son;\nmasculino = masculine, male;\nel nombre = name"

	name, articles, err := ParseUnit(text)
	require.NoError(t, err)

	assert.Equal(t, "unidad1", name)
	assert.Equal(t, []entities.Article{
		{Word: "el hijo", Translation: "son"},
		{Word: "masculino", Translation: "masculine, male"},
		{Word: "el nombre", Translation: "name"},
	}, articles)
}

func TestParseUnit_TrailingDelimiter(t *testing.T) {
	_, articles, err := ParseUnit("#u\nuno = one;\ndos = two;")
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestParseUnit_Rejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no hashtag", "unidad1\nuno = one"},
		{"no translation delimiter", "#u\nuno one"},
		{"empty translation", "#u\nuno = "},
		{"empty word", "#u\n= one"},
		{"no articles", "#u"},
		{"only delimiters", "#u\n;;;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseUnit(tt.text)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.NotEmpty(t, parseErr.Reason)
		})
	}
}

func TestParseUnitCommand(t *testing.T) {
	name, err := ParseUnitCommand("/unit_unidad1")
	require.NoError(t, err)
	assert.Equal(t, "unidad1", name)

	name, err = ParseUnitCommand("  /unit_lesson_2  ")
	require.NoError(t, err)
	assert.Equal(t, "lesson_2", name)
}

func TestParseUnitCommand_Rejections(t *testing.T) {
	for _, text := range []string{"/unit_", "/unit", "/units", "hello"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseUnitCommand(text)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestIsUnitMessage(t *testing.T) {
	assert.True(t, IsUnitMessage("#unidad1\nuno = one"))
	assert.True(t, IsUnitMessage("  #u"))
	assert.False(t, IsUnitMessage("/unit_unidad1"))
	assert.False(t, IsUnitMessage("hello"))
}

func TestIsUnitCommand(t *testing.T) {
	assert.True(t, IsUnitCommand("/unit_unidad1"))
	assert.True(t, IsUnitCommand("/unit"))
	assert.False(t, IsUnitCommand("#unidad1"))
}
