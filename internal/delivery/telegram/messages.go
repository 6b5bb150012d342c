// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
	"github.com/lexibot/vocab-units-bot/internal/service"
)

const (
	msgInternalError     = "Something went wrong. Please try again later."
	msgNoActiveRehearsal = "You have no active rehearsal. Send /units to pick a unit to study."
	msgParseEditHint     = " You're able to edit the message to fix that."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// createUnitHelp explains the unit message format.
func createUnitHelp() string {
	var sb strings.Builder

	sb.WriteString(md("To create a new vocabulary unit just send me a message starting with a hashtag name, e.g.: "))
	sb.WriteString("`#unidad1`")
	sb.WriteString(md(" After that I want to see a list of words in the same message. Use equal sign "))
	sb.WriteString("`" + service.TranslationDelimiter + "`")
	sb.WriteString(md(" to separate a foreign word from its translation. Use semicolon "))
	sb.WriteString("`" + service.ArticlesDelimiter + "`")
	sb.WriteString(md(" to separate the list's items from each other."))
	sb.WriteString("\n")
	sb.WriteString(md("Here is an example unit containing three pairs of words:"))
	sb.WriteString("\n```\n")
	sb.WriteString("#unidad1\nel hijo = son;\nmasculino = masculine, male;\nel nombre = name")
	sb.WriteString("\n```")

	return sb.String()
}

func welcomeText(user *entities.User) string {
	return md(fmt.Sprintf("Welcome, %s 🤗", user.FullName())) +
		md(" I'm intended to help you in studying a foreign language's lexics.") +
		md(" We'll study it gradually: unit by unit in your textbook.") +
		"\n" + createUnitHelp()
}

func helpText() string {
	return md("Here's the list of available commands:") +
		"\n" + md("/units — show the list of available units.") +
		"\n" + md("/stop — stop the current rehearsal.") +
		"\n" + createUnitHelp()
}

func unitListText(units []*entities.Unit) string {
	items := make([]string, 0, len(units))
	for _, unit := range units {
		items = append(items, md(unit.Command())+": "+md(unit.Glimpse()))
	}
	return md("Here's the list of available units:") + "\n" + strings.Join(items, "\n")
}

func noUnitsText() string {
	return md("Sorry, but you have no units 😔 ") + createUnitHelp()
}

// unitText renders every article of a unit, one per line.
func unitText(unit *entities.Unit) string {
	lines := make([]string, 0, len(unit.Articles))
	for _, a := range unit.Articles {
		lines = append(lines, bold(a.Word)+" "+md(a.Translation))
	}
	return strings.Join(lines, "\n")
}

func unitSavedText(unit *entities.Unit, created bool) string {
	verb := "updated"
	if created {
		verb = "added"
	}
	return md(fmt.Sprintf("Unit #%s was %s.", unit.Name, verb)) + "\n" + unitText(unit)
}

func unitNotFoundText(name string) string {
	return fmt.Sprintf("Sorry, unit “%s” not found 😞", name)
}

func questionText(word string) string {
	return md("Do you know the translation for") + "\n" + bold(word) + md("?")
}

func revealText(article entities.Article) string {
	return md("Did you know the translation for") + "\n" +
		bold(article.Word) + " " + md(article.Translation) + md("?")
}

func rehearsalFinishedText(report *service.StopReport) string {
	return fmt.Sprintf("The rehearsal was finished. %s", report.Summary)
}

func rehearsalStoppedText(report *service.StopReport) string {
	return fmt.Sprintf("Your rehearsal of unit “%s” was stopped. %s", report.UnitName, report.Summary)
}

// questionKeyboard offers the translation reveal on top of the yes/no answers.
func questionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Show the translation", buildShowTranslationCallback()),
		),
		answerRow(),
	)
}

// revealKeyboard keeps only the yes/no answers once the translation is shown.
func revealKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(answerRow())
}

func answerRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Yes", buildAnswerCallback(true)),
		tgbotapi.NewInlineKeyboardButtonData("No", buildAnswerCallback(false)),
	)
}
