package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
)

// Delimiters of the unit message format:
//
//	#unidad1
//	el hijo = son;
//	masculino = masculine, male;
//	el nombre = name
const (
	TranslationDelimiter = "="
	ArticlesDelimiter    = ";"
)

// ParseError rejects a malformed user message with a reason that is safe
// to send back as-is. It is the expected outcome for user typos, distinct
// from real failures.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

var (
	hashtagRe     = regexp.MustCompile(`^\s*#`)
	unitNameRe    = regexp.MustCompile(`^\s*#([a-zA-Z0-9_]+)\s*`)
	unitCmdPrefix = regexp.MustCompile(`^\s*/unit`)
	unitCmdRe     = regexp.MustCompile(`^\s*/unit_([a-zA-Z0-9_]+)\s*$`)
)

// IsUnitMessage reports whether a message looks like a unit definition,
// i.e. starts with a hashtag.
func IsUnitMessage(text string) bool {
	return hashtagRe.MatchString(text)
}

// IsUnitCommand reports whether a message looks like a rehearsal-starting
// unit command.
func IsUnitCommand(text string) bool {
	return unitCmdPrefix.MatchString(text)
}

// ParseUnit parses a hashtag unit message into a name and its articles.
// Malformed input yields a *ParseError.
func ParseUnit(text string) (string, []entities.Article, error) {
	m := unitNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", nil, &ParseError{
			Reason: "I can't read the unit's name. Start the message with a hashtag name, e.g. #unidad1.",
		}
	}

	name := m[1]
	body := text[len(m[0]):]

	var articles []entities.Article
	for _, chunk := range strings.Split(body, ArticlesDelimiter) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		pair := strings.SplitN(chunk, TranslationDelimiter, 2)
		if len(pair) != 2 {
			return "", nil, &ParseError{
				Reason: fmt.Sprintf(
					"I can't find the “%s” sign separating a word from its translation in “%s”.",
					TranslationDelimiter, chunk,
				),
			}
		}

		word := strings.TrimSpace(pair[0])
		translation := strings.TrimSpace(pair[1])
		if word == "" || translation == "" {
			return "", nil, &ParseError{
				Reason: fmt.Sprintf("Either the word or the translation is empty in “%s”.", chunk),
			}
		}

		articles = append(articles, entities.Article{Word: word, Translation: translation})
	}

	if len(articles) == 0 {
		return "", nil, &ParseError{
			Reason: "The unit has no words. List at least one “word = translation” pair after the name.",
		}
	}

	return name, articles, nil
}

// ParseUnitCommand extracts the unit name from a /unit_<name> command.
func ParseUnitCommand(text string) (string, error) {
	m := unitCmdRe.FindStringSubmatch(text)
	if m == nil {
		return "", &ParseError{
			Reason: "To rehearse a unit, send its command, e.g. /unit_unidad1. /units shows the full list.",
		}
	}

	return m[1], nil
}
