package entities

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Rehearsal statuses. The transition is one-way: an active rehearsal can
// be stopped, a stopped one is never reactivated (a new one is created
// instead).
const (
	RehearsalStatusActive  = "active"
	RehearsalStatusStopped = "stopped"
)

var (
	// ErrNoMoreWords signals that every word of the unit has been asked.
	// It marks rehearsal completion, not a failure.
	ErrNoMoreWords = errors.New("no words left to rehearse")

	// ErrNoOutstandingQuestion means an answer or a message id arrived
	// while no question was awaiting one. That is a caller sequencing
	// bug, not a user-recoverable condition.
	ErrNoOutstandingQuestion = errors.New("no outstanding question")
)

// HistoryItem is one asked word. IsKnown stays nil while the question is
// outstanding. MessageID keeps the Telegram message id of the question so
// the bot can edit it in place later.
type HistoryItem struct {
	Word      string `json:"word"`
	IsKnown   *bool  `json:"isKnown,omitempty"`
	MessageID *int   `json:"messageId,omitempty"`
}

// Rehearsal is a single quiz session over one unit. History holds the
// asked words in presentation order; a word appears at most once, and at
// most the last item may be unanswered.
//
// Every state-changing operation returns a new snapshot instead of
// mutating the receiver, so concurrent turns never alias one history
// slice.
type Rehearsal struct {
	ID        uuid.UUID
	UserID    int64
	Unit      *Unit
	Status    string
	History   []HistoryItem
	StartedAt time.Time
	UpdatedAt time.Time
}

// NewRehearsal starts an active rehearsal of a unit with empty history.
func NewRehearsal(userID int64, unit *Unit) *Rehearsal {
	return &Rehearsal{
		ID:        uuid.New(),
		UserID:    userID,
		Unit:      unit,
		Status:    RehearsalStatusActive,
		StartedAt: time.Now(),
	}
}

// IsActive reports whether the rehearsal can still take turns.
func (r Rehearsal) IsActive() bool {
	return r.Status == RehearsalStatusActive
}

// Outstanding reports whether the last asked word still awaits an answer.
func (r Rehearsal) Outstanding() bool {
	if len(r.History) == 0 {
		return false
	}
	return r.History[len(r.History)-1].IsKnown == nil
}

// CurrentWord returns the most recently asked word.
func (r Rehearsal) CurrentWord() (string, bool) {
	if len(r.History) == 0 {
		return "", false
	}
	return r.History[len(r.History)-1].Word, true
}

// CurrentArticle returns the unit article for the most recently asked
// word, used to reveal its translation.
func (r Rehearsal) CurrentArticle() (Article, error) {
	word, ok := r.CurrentWord()
	if !ok {
		return Article{}, ErrNoOutstandingQuestion
	}

	article, ok := r.Unit.ArticleByWord(word)
	if !ok {
		// The unit is snapshotted at rehearsal creation, so an asked
		// word must exist in it.
		return Article{}, fmt.Errorf("word %q is not in unit %q", word, r.Unit.Name)
	}
	return article, nil
}

// NextWord picks the next word to ask: uniform-random over the unit words
// not yet present in history. The chosen word is appended as a new
// unanswered history item. Returns ErrNoMoreWords when the unit is
// exhausted.
func (r Rehearsal) NextWord() (Rehearsal, error) {
	asked := make(map[string]struct{}, len(r.History))
	for _, item := range r.History {
		asked[item.Word] = struct{}{}
	}

	var candidates []string
	for _, word := range r.Unit.Words() {
		if _, ok := asked[word]; !ok {
			candidates = append(candidates, word)
		}
	}

	if len(candidates) == 0 {
		return r, ErrNoMoreWords
	}

	next := candidates[rand.Intn(len(candidates))]

	updated := r
	updated.History = append(cloneHistory(r.History), HistoryItem{Word: next})
	return updated, nil
}

// WithAnswer records the user's answer on the outstanding history item.
func (r Rehearsal) WithAnswer(isKnown bool) (Rehearsal, error) {
	if !r.Outstanding() {
		return r, ErrNoOutstandingQuestion
	}

	history := cloneHistory(r.History)
	history[len(history)-1].IsKnown = &isKnown

	updated := r
	updated.History = history
	return updated, nil
}

// WithMessageID remembers the Telegram message id of the outstanding
// question. Pure bookkeeping, no business-rule implications.
func (r Rehearsal) WithMessageID(messageID int) (Rehearsal, error) {
	if !r.Outstanding() {
		return r, ErrNoOutstandingQuestion
	}

	history := cloneHistory(r.History)
	history[len(history)-1].MessageID = &messageID

	updated := r
	updated.History = history
	return updated, nil
}

// Stopped returns the rehearsal with status set to stopped.
func (r Rehearsal) Stopped() Rehearsal {
	updated := r
	updated.Status = RehearsalStatusStopped
	return updated
}

// KnownRatio is the share of asked words the user knew. An empty history
// counts as 0, not NaN.
func (r Rehearsal) KnownRatio() float64 {
	if len(r.History) == 0 {
		return 0
	}

	known := 0
	for _, item := range r.History {
		if item.IsKnown != nil && *item.IsKnown {
			known++
		}
	}
	return float64(known) / float64(len(r.History))
}

// Summary renders the end-of-rehearsal report. The tier boundaries are
// strict: exactly 0.9 lands in the "study one more time" tier, not the
// "great" one.
func (r Rehearsal) Summary() string {
	ratio := r.KnownRatio()
	percent := int(math.Round(ratio * 100))

	switch {
	case ratio == 1:
		return "Wonderful! You haven't made a single mistake 🤠 Let's go to the next unit?"
	case ratio > 0.9:
		return fmt.Sprintf("Great! You know %d%% of words in this unit 😏 Congratulations!", percent)
	case ratio > 0.75:
		return fmt.Sprintf("You know %d%% of words here. Not bad 👌", percent)
	case ratio > 0:
		return fmt.Sprintf("You know only %d%% of words here. Maybe, study this unit one more time?", percent)
	default:
		return "It seems like you don't know a single word from this unit 😶 Perhaps, you should try something more simple?"
	}
}

func cloneHistory(history []HistoryItem) []HistoryItem {
	cloned := make([]HistoryItem, len(history))
	copy(cloned, history)
	return cloned
}
