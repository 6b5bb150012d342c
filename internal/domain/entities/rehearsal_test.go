package entities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUnit(t *testing.T, words ...string) *Unit {
	t.Helper()

	articles := make([]Article, 0, len(words))
	for _, w := range words {
		articles = append(articles, Article{Word: w, Translation: "translation of " + w})
	}

	unit, err := NewUnit(1, "unidad1", articles)
	require.NoError(t, err)
	return unit
}

func answered(word string, isKnown bool) HistoryItem {
	return HistoryItem{Word: word, IsKnown: &isKnown}
}

func TestRehearsal_NextWord_AsksEveryWordOnce(t *testing.T) {
	words := []string{"uno", "dos", "tres", "cuatro", "cinco"}
	rehearsal := *NewRehearsal(1, testUnit(t, words...))

	seen := make(map[string]bool)
	for i := 0; i < len(words); i++ {
		next, err := rehearsal.NextWord()
		require.NoError(t, err)

		word, ok := next.CurrentWord()
		require.True(t, ok)
		assert.False(t, seen[word], "word %q asked twice", word)
		seen[word] = true

		require.Len(t, next.History, i+1)
		assert.True(t, next.Outstanding())

		rehearsal, err = next.WithAnswer(true)
		require.NoError(t, err)
	}

	assert.Len(t, seen, len(words))

	_, err := rehearsal.NextWord()
	assert.ErrorIs(t, err, ErrNoMoreWords)
}

func TestRehearsal_NextWord_DoesNotMutateReceiver(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno", "dos"))

	next, err := rehearsal.NextWord()
	require.NoError(t, err)

	assert.Empty(t, rehearsal.History)
	assert.Len(t, next.History, 1)
}

func TestRehearsal_WithAnswer(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno"))

	asked, err := rehearsal.NextWord()
	require.NoError(t, err)

	done, err := asked.WithAnswer(true)
	require.NoError(t, err)
	require.NotNil(t, done.History[0].IsKnown)
	assert.True(t, *done.History[0].IsKnown)

	// The pre-answer snapshot keeps its outstanding question.
	assert.Nil(t, asked.History[0].IsKnown)

	// Answering again is a sequencing violation.
	_, err = done.WithAnswer(false)
	assert.ErrorIs(t, err, ErrNoOutstandingQuestion)
}

func TestRehearsal_WithAnswer_EmptyHistory(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno"))

	_, err := rehearsal.WithAnswer(true)
	assert.ErrorIs(t, err, ErrNoOutstandingQuestion)
}

func TestRehearsal_WithMessageID(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno"))

	asked, err := rehearsal.NextWord()
	require.NoError(t, err)

	tracked, err := asked.WithMessageID(42)
	require.NoError(t, err)
	require.NotNil(t, tracked.History[0].MessageID)
	assert.Equal(t, 42, *tracked.History[0].MessageID)
	assert.Nil(t, asked.History[0].MessageID)

	done, err := tracked.WithAnswer(false)
	require.NoError(t, err)

	_, err = done.WithMessageID(43)
	assert.ErrorIs(t, err, ErrNoOutstandingQuestion)
}

func TestRehearsal_CurrentArticle(t *testing.T) {
	unit := testUnit(t, "uno", "dos")
	rehearsal := *NewRehearsal(1, unit)

	_, err := rehearsal.CurrentArticle()
	assert.ErrorIs(t, err, ErrNoOutstandingQuestion)

	asked, err := rehearsal.NextWord()
	require.NoError(t, err)

	article, err := asked.CurrentArticle()
	require.NoError(t, err)

	word, _ := asked.CurrentWord()
	assert.Equal(t, word, article.Word)
	assert.Equal(t, "translation of "+word, article.Translation)

	// Looking up the article must not touch the history.
	assert.Len(t, asked.History, 1)
	assert.True(t, asked.Outstanding())
}

func TestRehearsal_Stopped(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno"))
	require.True(t, rehearsal.IsActive())

	stopped := rehearsal.Stopped()
	assert.Equal(t, RehearsalStatusStopped, stopped.Status)
	assert.True(t, rehearsal.IsActive(), "stopping must not mutate the receiver")

	// Stopping twice changes nothing observable.
	assert.Equal(t, stopped, stopped.Stopped())
}

func TestRehearsal_Summary_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		history []HistoryItem
		want    string
	}{
		{
			name:    "flawless",
			history: []HistoryItem{answered("a", true), answered("b", true)},
			want:    "Wonderful! You haven't made a single mistake 🤠 Let's go to the next unit?",
		},
		{
			name: "above ninety",
			history: func() []HistoryItem {
				items := make([]HistoryItem, 0, 20)
				for i := 0; i < 19; i++ {
					items = append(items, answered(fmt.Sprintf("w%d", i), true))
				}
				return append(items, answered("w19", false))
			}(),
			want: "Great! You know 95% of words in this unit 😏 Congratulations!",
		},
		{
			name: "exactly ninety is not great",
			history: func() []HistoryItem {
				items := make([]HistoryItem, 0, 10)
				for i := 0; i < 9; i++ {
					items = append(items, answered(fmt.Sprintf("w%d", i), true))
				}
				return append(items, answered("w9", false))
			}(),
			want: "You know only 90% of words here. Maybe, study this unit one more time?",
		},
		{
			name: "above seventy five",
			history: []HistoryItem{
				answered("a", true), answered("b", true),
				answered("c", true), answered("d", true),
				answered("e", false),
			},
			want: "You know 80% of words here. Not bad 👌",
		},
		{
			name: "exactly seventy five is not good",
			history: []HistoryItem{
				answered("a", true), answered("b", true),
				answered("c", true), answered("d", false),
			},
			want: "You know only 75% of words here. Maybe, study this unit one more time?",
		},
		{
			name:    "percent is rounded",
			history: []HistoryItem{answered("a", true), answered("b", true), answered("c", false)},
			want:    "You know only 67% of words here. Maybe, study this unit one more time?",
		},
		{
			name:    "nothing known",
			history: []HistoryItem{answered("a", false), answered("b", false)},
			want:    "It seems like you don't know a single word from this unit 😶 Perhaps, you should try something more simple?",
		},
		{
			name:    "empty history",
			history: nil,
			want:    "It seems like you don't know a single word from this unit 😶 Perhaps, you should try something more simple?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rehearsal := *NewRehearsal(1, testUnit(t, "uno"))
			rehearsal.History = tt.history

			assert.Equal(t, tt.want, rehearsal.Summary())
		})
	}
}

func TestRehearsal_Summary_IndependentOfStatus(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno", "dos"))
	rehearsal.History = []HistoryItem{answered("uno", true), answered("dos", false)}

	assert.Equal(t, rehearsal.Summary(), rehearsal.Stopped().Summary())
}

func TestRehearsal_KnownRatio_EmptyHistory(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno"))

	assert.Zero(t, rehearsal.KnownRatio())
}

// Drives the two-word session end to end: one known, one unknown, 50%.
func TestRehearsal_TwoWordSession(t *testing.T) {
	rehearsal := *NewRehearsal(1, testUnit(t, "uno", "dos"))

	first, err := rehearsal.NextWord()
	require.NoError(t, err)
	firstWord, _ := first.CurrentWord()
	assert.Contains(t, []string{"uno", "dos"}, firstWord)

	answeredFirst, err := first.WithAnswer(true)
	require.NoError(t, err)

	second, err := answeredFirst.NextWord()
	require.NoError(t, err)
	secondWord, _ := second.CurrentWord()
	assert.NotEqual(t, firstWord, secondWord)

	answeredSecond, err := second.WithAnswer(false)
	require.NoError(t, err)

	_, err = answeredSecond.NextWord()
	require.ErrorIs(t, err, ErrNoMoreWords)

	stopped := answeredSecond.Stopped()
	assert.Equal(
		t,
		"You know only 50% of words here. Maybe, study this unit one more time?",
		stopped.Summary(),
	)
}
