package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnitHasNoArticles = errors.New("unit has no articles")

// glimpseWordsMax limits how many words a unit glimpse shows in listings.
const glimpseWordsMax = 3

// Article is a single word/translation pair inside a unit. Word is the
// quiz prompt, Translation is what the user is asked to recall.
type Article struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// Unit is a named, user-owned list of articles to be studied.
// The name is unique per user.
type Unit struct {
	ID        uuid.UUID
	UserID    int64
	Name      string
	Articles  []Article
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUnit creates a unit for a user. A unit must contain at least one
// article; this is enforced here, at creation, and nowhere else.
func NewUnit(userID int64, name string, articles []Article) (*Unit, error) {
	if len(articles) == 0 {
		return nil, ErrUnitHasNoArticles
	}

	return &Unit{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     strings.ToLower(strings.TrimSpace(name)),
		Articles: articles,
	}, nil
}

// Words returns the unit's words in article order.
func (u *Unit) Words() []string {
	words := make([]string, 0, len(u.Articles))
	for _, a := range u.Articles {
		words = append(words, a.Word)
	}
	return words
}

// ArticleByWord finds the article whose word matches exactly.
func (u *Unit) ArticleByWord(word string) (Article, bool) {
	for _, a := range u.Articles {
		if a.Word == word {
			return a, true
		}
	}
	return Article{}, false
}

// Command returns the bot command that starts a rehearsal of this unit.
func (u *Unit) Command() string {
	return "/unit_" + u.Name
}

// Glimpse returns a short preview of the unit: its first few words,
// with an ellipsis when the unit holds more.
func (u *Unit) Glimpse() string {
	words := u.Words()
	if len(words) <= glimpseWordsMax {
		return strings.Join(words, ", ")
	}
	return strings.Join(words[:glimpseWordsMax], ", ") + "..."
}
